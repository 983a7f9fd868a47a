package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"postbot/internal/adapters/httpapi/middleware"
	userEntity "postbot/internal/core/user"
	userPort "postbot/internal/ports/user"
)

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type registerForm struct {
	Username        string `form:"username" binding:"required,max=150"`
	Password        string `form:"password" binding:"required,min=8"`
	PasswordConfirm string `form:"password_confirm" binding:"required,eqfield=Password"`
}

type UserController struct {
	uc    UserUseCase
	pages *pages
}

func NewUserController(uc UserUseCase, p *pages) *UserController {
	return &UserController{uc: uc, pages: p}
}

func (ctl *UserController) LoginForm(c *gin.Context) {
	ctl.pages.render(c, http.StatusOK, "login.html", gin.H{
		"Title":  "Вход",
		"Form":   loginForm{},
		"Errors": map[string]string{},
	})
}

func (ctl *UserController) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		ctl.pages.render(c, http.StatusBadRequest, "login.html", gin.H{
			"Title":  "Вход",
			"Form":   form,
			"Errors": fieldErrors(err),
		})
		return
	}

	res, err := ctl.uc.LoginUser(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, userEntity.ErrInvalidCredentials) {
		ctl.pages.render(c, http.StatusUnauthorized, "login.html", gin.H{
			"Title":  "Вход",
			"Form":   loginForm{Username: form.Username},
			"Errors": map[string]string{"Form": "Неверное имя пользователя или пароль."},
		})
		return
	}
	if err != nil {
		ctl.pages.fail(c, err)
		return
	}

	setSession(c, res)
	c.Redirect(http.StatusSeeOther, "/posts")
}

func (ctl *UserController) RegisterForm(c *gin.Context) {
	ctl.pages.render(c, http.StatusOK, "register.html", gin.H{
		"Title":  "Регистрация",
		"Form":   registerForm{},
		"Errors": map[string]string{},
	})
}

// Register creates a web account and logs it in straight away.
func (ctl *UserController) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		ctl.renderRegister(c, form, fieldErrors(err))
		return
	}

	u, err := ctl.uc.RegisterUser(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, userEntity.ErrUsernameTaken) {
		ctl.renderRegister(c, form, map[string]string{"Username": "Это имя уже занято."})
		return
	}
	if errors.Is(err, userEntity.ErrEmptyUsername) {
		ctl.renderRegister(c, form, map[string]string{"Username": "Обязательное поле."})
		return
	}
	if err != nil {
		ctl.pages.fail(c, err)
		return
	}

	res, err := ctl.uc.LoginUser(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		ctl.pages.fail(c, err)
		return
	}
	setSession(c, res)
	ctl.pages.notice(c, u.ID, fmt.Sprintf("Добро пожаловать, %s! 🌸", u.DisplayName))
	c.Redirect(http.StatusSeeOther, "/posts")
}

func (ctl *UserController) renderRegister(c *gin.Context, form registerForm, errs map[string]string) {
	ctl.pages.render(c, http.StatusBadRequest, "register.html", gin.H{
		"Title":  "Регистрация",
		"Form":   registerForm{Username: form.Username},
		"Errors": errs,
	})
}

func (ctl *UserController) Logout(c *gin.Context) {
	middleware.ClearToken(c)
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

func setSession(c *gin.Context, res *userPort.LoginResponse) {
	maxAge := int(time.Until(time.Unix(res.ExpiresAt, 0)).Seconds())
	middleware.SetToken(c, res.Token, maxAge)
}
