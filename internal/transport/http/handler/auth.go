package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"campus-assist/internal/app"
)

// AuthHandler implements the browser form flow: POSTs redirect back with a
// flash query parameter on failure and onward on success, with the login
// session carried in a JWT cookie.
type AuthHandler struct {
	authService  *app.AuthService
	cookieName   string
	cookieMaxAge int
}

type RegisterForm struct {
	UserType    string `form:"user_type" binding:"required"`
	Name        string `form:"name" binding:"required"`
	Email       string `form:"email" binding:"required"`
	Usn         string `form:"usn"`
	Batch       string `form:"batch"`
	Branch      string `form:"branch"`
	PassOutYear string `form:"pass_out_year"`
	UniqueID    string `form:"unique_id"`
}

type LoginForm struct {
	Email string `form:"email" binding:"required"`
	Usn   string `form:"usn" binding:"required"` // USN or staff unique ID
}

func NewAuthHandler(authService *app.AuthService, cookieName string, cookieMaxAge int) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieName:   cookieName,
		cookieMaxAge: cookieMaxAge,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithFlash(c, "/register", "All required fields must be filled in.")
		return
	}

	var err error
	switch form.UserType {
	case app.UserTypeStudent:
		_, err = h.authService.RegisterStudent(app.RegisterStudentInput{
			Name:        form.Name,
			Batch:       form.Batch,
			Usn:         form.Usn,
			Email:       form.Email,
			Branch:      form.Branch,
			PassOutYear: form.PassOutYear,
		})
	case app.UserTypeStaff:
		_, err = h.authService.RegisterStaff(app.RegisterStaffInput{
			Name:     form.Name,
			UniqueID: form.UniqueID,
			Email:    form.Email,
		})
	default:
		redirectWithFlash(c, "/register", "Unknown user type.")
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, app.ErrDuplicateCredential):
			redirectWithFlash(c, "/register", "Email or identifier already registered!")
		case errors.Is(err, app.ErrInvalidInput):
			redirectWithFlash(c, "/register", "All required fields must be filled in.")
		default:
			redirectWithFlash(c, "/register", "Registration failed, please try again.")
		}
		return
	}

	redirectWithFlash(c, "/login", "Registration successful!")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithFlash(c, "/login", "Email and identifier are required.")
		return
	}

	result, err := h.authService.Login(app.LoginInput{
		Email:      form.Email,
		Identifier: form.Usn,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidCredential), errors.Is(err, app.ErrInvalidInput):
			redirectWithFlash(c, "/login", "Invalid credentials!")
		default:
			redirectWithFlash(c, "/login", "Login failed, please try again.")
		}
		return
	}

	c.SetCookie(h.cookieName, result.Token, h.cookieMaxAge, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/chat")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

func redirectWithFlash(c *gin.Context, path, message string) {
	c.Redirect(http.StatusSeeOther, path+"?flash="+url.QueryEscape(message))
}
