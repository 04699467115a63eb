package rest

import (
	"net/http"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
)

// Signup handles POST /api/auth/signup.
func (a *API) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !a.decodeAndValidate(w, r, &req) {
		return
	}

	res, err := a.accounts.Signup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeServiceError(w, r, a.logger, err, map[error]string{
			common.ErrorConflict: detailEmailTaken,
		})
		return
	}

	writeJSON(w, http.StatusCreated, newAuthResponse(res))
}

// Signin handles POST /api/auth/signin. Unknown email and wrong password
// share one response.
func (a *API) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if !a.decodeAndValidate(w, r, &req) {
		return
	}

	res, err := a.accounts.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, a.logger, err, map[error]string{
			common.ErrorUnauthorized: detailBadCredentials,
		})
		return
	}

	writeJSON(w, http.StatusOK, newAuthResponse(res))
}

// Refresh handles POST /api/auth/refresh.
func (a *API) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !a.decodeAndValidate(w, r, &req) {
		return
	}

	access, err := a.accounts.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, a.logger, err, map[error]string{
			common.ErrorUnauthorized: detailBadRefresh,
		})
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{AccessToken: access, TokenType: common.TokenTypeBearer})
}

// Signout handles POST /api/auth/signout. Tokens are stateless, so this only
// confirms the caller was authenticated; clients drop their tokens.
func (a *API) Signout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, errorResponse{Detail: detailSignedOut})
}

// Me handles GET /api/auth/me.
func (a *API) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	user, err := a.accounts.Me(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, a.logger, err, map[error]string{
			common.ErrorUnauthorized: detailInvalidToken,
		})
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}
