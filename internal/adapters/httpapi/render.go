package httpapi

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
	"go.uber.org/zap"

	"postbot/internal/adapters/httpapi/middleware"
	sessionPort "postbot/internal/ports/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var sanitizer = bluemonday.UGCPolicy()

func loadTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"markdown": renderMarkdown,
		"date":     formatDate,
	}).ParseFS(templateFS, "templates/*.html")
}

// renderMarkdown turns a post description into sanitized HTML.
func renderMarkdown(source string) template.HTML {
	unsafe := blackfriday.Run([]byte(source))
	return template.HTML(sanitizer.SanitizeBytes(unsafe))
}

func formatDate(t time.Time) string {
	return t.Local().Format("02.01.2006 15:04")
}

// pages holds what every controller needs to render a page.
type pages struct {
	flash  sessionPort.FlashStore
	logger *zap.Logger
}

// render adds the logged-in user and pending notices to data.
func (p *pages) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if u := middleware.CurrentUser(c); u != nil {
		data["User"] = u
		notices, err := p.flash.Pop(c.Request.Context(), flashKey(u.ID))
		if err != nil {
			p.logger.Warn("⚠️ Could not read notices", zap.Int64("userID", u.ID), zap.Error(err))
		}
		data["Flashes"] = notices
	}
	c.HTML(status, name, data)
}

// notice queues a one-line message for the user's next page.
func (p *pages) notice(c *gin.Context, userID int64, message string) {
	if err := p.flash.Push(c.Request.Context(), flashKey(userID), message); err != nil {
		p.logger.Warn("⚠️ Could not store notice", zap.Int64("userID", userID), zap.Error(err))
	}
}

func (p *pages) notFound(c *gin.Context) {
	p.render(c, http.StatusNotFound, "error.html", gin.H{
		"Title":   "Не найдено",
		"Message": "Такой страницы нет. 🙈",
	})
}

func (p *pages) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	p.render(c, http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Ошибка",
		"Message": "Ой, что-то пошло не так 😿 Попробуйте ещё раз чуть позже.",
	})
}

func flashKey(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10)
}

// fieldErrors maps binding failures to per-field messages keyed by the
// form struct's field name.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out["Form"] = "Не удалось прочитать форму."
		return out
	}
	for _, fe := range ve {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = "Обязательное поле."
		case "max":
			out[fe.Field()] = "Не больше " + fe.Param() + " символов."
		case "min":
			out[fe.Field()] = "Не меньше " + fe.Param() + " символов."
		case "eqfield":
			out[fe.Field()] = "Пароли не совпадают."
		default:
			out[fe.Field()] = "Некорректное значение."
		}
	}
	return out
}
