// internal/app/features/groups/join.go
package groups

import (
	"net/http"

	"github.com/fittedapp/fitted/internal/app/features/shared"
	"github.com/fittedapp/fitted/internal/app/system/htmlsanitize"
)

type joinRequest struct {
	Code     string `json:"code"`
	Passcode string `json:"passcode"`
}

// HandleJoin handles POST /groups/join. The lifecycle manager resolves
// the code, checks the passcode, and registers membership with set
// semantics so repeat joins are harmless.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	var req joinRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, http.StatusBadRequest, "bad_request", "Invalid request body.")
		return
	}
	req.Code = htmlsanitize.StripTags(req.Code)
	if req.Code == "" {
		shared.Error(w, http.StatusBadRequest, "bad_request", "A join code is required.")
		return
	}

	g, err := h.Lifecycle.JoinGroup(r.Context(), req.Code, req.Passcode, uid)
	if err != nil {
		shared.RenderLifecycleError(w, h.Log, "join group", err)
		return
	}
	shared.JSON(w, http.StatusOK, g)
}
