package web

import (
	"net/http"
	"time"

	"github.com/quillpad/quillpad/internal/model"
)

type usersPage struct {
	Title string
	Users []model.User
}

// Users handles GET /users.
func (f *Frontend) Users(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	users, err := f.store.ListUsers(r.Context())
	f.metrics.ObserveStoreDuration(time.Since(start))
	if err != nil {
		f.renderError(w, err)
		return
	}

	f.render(w, http.StatusOK, "users", usersPage{
		Title: "Users",
		Users: users,
	})
}
