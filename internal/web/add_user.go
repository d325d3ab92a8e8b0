package web

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/quillpad/quillpad/internal/model"
	"github.com/quillpad/quillpad/internal/repository"
)

type addUserPage struct {
	Title    string
	Error    string
	Username string
	Email    string
}

// AddUserForm handles GET /add_user.
func (f *Frontend) AddUserForm(w http.ResponseWriter, r *http.Request) {
	f.render(w, http.StatusOK, "add_user", addUserPage{Title: "Add user"})
}

// AddUser handles POST /add_user. The form may be urlencoded or multipart;
// a multipart form can carry a picture file. On success the client is sent
// to the user listing, otherwise the form is shown again with a message and
// the submitted values.
func (f *Frontend) AddUser(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, f.maxUpload)

	newUser, err := f.parseAddUser(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			f.render(w, http.StatusRequestEntityTooLarge, "add_user", addUserPage{
				Title: "Add user",
				Error: fmt.Sprintf("The submitted form exceeds %d bytes.", f.maxUpload),
			})
			return
		}
		f.render(w, http.StatusBadRequest, "add_user", addUserPage{
			Title: "Add user",
			Error: "The form could not be read.",
		})
		return
	}

	page := addUserPage{
		Title:    "Add user",
		Username: newUser.Username,
		Email:    newUser.Email,
	}

	if err := newUser.Validate(); err != nil {
		page.Error = validationMessage(err)
		f.render(w, http.StatusOK, "add_user", page)
		return
	}

	start := time.Now()
	user, err := f.store.CreateUser(r.Context(), newUser)
	f.metrics.ObserveStoreDuration(time.Since(start))
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			f.metrics.IncUserConflict()
			page.Error = "A user with this email already exists."
			f.render(w, http.StatusOK, "add_user", page)
			return
		}
		f.renderError(w, err)
		return
	}

	f.metrics.IncUserCreated()
	f.logger.Info("user_created",
		"user_id", user.ID,
		"has_profile_picture", user.HasProfilePicture(),
		"source", "form",
	)

	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

func (f *Frontend) parseAddUser(r *http.Request) (model.NewUser, error) {
	var newUser model.NewUser

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(f.maxUpload); err != nil {
			return newUser, err
		}
		picture, err := readPicture(r)
		if err != nil {
			return newUser, err
		}
		newUser.ProfilePicture = picture
	} else if err := r.ParseForm(); err != nil {
		return newUser, err
	}

	newUser.Username = r.PostFormValue("username")
	newUser.Email = r.PostFormValue("email")
	newUser.Normalize()
	return newUser, nil
}

// readPicture returns the uploaded picture bytes, or nil when the form
// carries no picture.
func readPicture(r *http.Request) ([]byte, error) {
	file, _, err := r.FormFile("picture")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrUsernameRequired):
		return "Username is required."
	case errors.Is(err, model.ErrEmailRequired):
		return "Email is required."
	default:
		return "Email is invalid."
	}
}
