package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"postbot/internal/adapters/httpapi/middleware"
	postEntity "postbot/internal/core/post"
	postPort "postbot/internal/ports/post"
)

type postForm struct {
	Title       string `form:"title" binding:"required,max=200"`
	Description string `form:"description" binding:"required"`
}

type PostController struct {
	pc    PostUseCase
	pages *pages
}

func NewPostController(pc PostUseCase, p *pages) *PostController {
	return &PostController{pc: pc, pages: p}
}

func (ctl *PostController) List(c *gin.Context) {
	posts, err := ctl.pc.ListPosts(c.Request.Context())
	if err != nil {
		ctl.pages.fail(c, err)
		return
	}
	ctl.pages.render(c, http.StatusOK, "post_list.html", gin.H{
		"Title": "Посты",
		"Posts": posts,
	})
}

func (ctl *PostController) Detail(c *gin.Context) {
	p, ok := ctl.load(c)
	if !ok {
		return
	}
	ctl.pages.render(c, http.StatusOK, "post_detail.html", gin.H{
		"Title": p.Title,
		"Post":  p,
	})
}

func (ctl *PostController) NewForm(c *gin.Context) {
	ctl.renderForm(c, http.StatusOK, nil, postForm{}, map[string]string{})
}

func (ctl *PostController) Create(c *gin.Context) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		ctl.renderForm(c, http.StatusBadRequest, nil, form, fieldErrors(err))
		return
	}

	u := middleware.CurrentUser(c)
	created, err := ctl.pc.CreatePost(c.Request.Context(), form.Title, form.Description, u.ID)
	if errs, invalid := postErrors(err); invalid {
		ctl.renderForm(c, http.StatusBadRequest, nil, form, errs)
		return
	}
	if err != nil {
		ctl.pages.fail(c, err)
		return
	}

	ctl.pages.notice(c, u.ID, fmt.Sprintf("Ура! Пост '%s' успешно добавлен! 🌸", created.Title))
	c.Redirect(http.StatusSeeOther, postPath(created.ID))
}

func (ctl *PostController) EditForm(c *gin.Context) {
	p, ok := ctl.load(c)
	if !ok {
		return
	}
	ctl.renderForm(c, http.StatusOK, p, postForm{Title: p.Title, Description: p.Description}, map[string]string{})
}

func (ctl *PostController) Update(c *gin.Context) {
	p, ok := ctl.load(c)
	if !ok {
		return
	}

	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		ctl.renderForm(c, http.StatusBadRequest, p, form, fieldErrors(err))
		return
	}

	updated, err := ctl.pc.UpdatePost(c.Request.Context(), p.ID, postEntity.Changes{
		Title:       &form.Title,
		Description: &form.Description,
	})
	if errors.Is(err, postEntity.ErrNotFound) {
		ctl.pages.notFound(c)
		return
	}
	if errs, invalid := postErrors(err); invalid {
		ctl.renderForm(c, http.StatusBadRequest, p, form, errs)
		return
	}
	if err != nil {
		ctl.pages.fail(c, err)
		return
	}

	ctl.pages.notice(c, middleware.CurrentUser(c).ID, fmt.Sprintf("Пост '%s' успешно обновлен! ✨", updated.Title))
	c.Redirect(http.StatusSeeOther, postPath(updated.ID))
}

func (ctl *PostController) DeleteConfirm(c *gin.Context) {
	p, ok := ctl.load(c)
	if !ok {
		return
	}
	ctl.pages.render(c, http.StatusOK, "post_confirm_delete.html", gin.H{
		"Title": "Удаление поста",
		"Post":  p,
	})
}

func (ctl *PostController) Delete(c *gin.Context) {
	p, ok := ctl.load(c)
	if !ok {
		return
	}

	err := ctl.pc.DeletePost(c.Request.Context(), p.ID)
	if errors.Is(err, postEntity.ErrNotFound) {
		ctl.pages.notFound(c)
		return
	}
	if err != nil {
		ctl.pages.fail(c, err)
		return
	}

	ctl.pages.notice(c, middleware.CurrentUser(c).ID, fmt.Sprintf("Пост '%s' успешно удален. 🗑️ Спасибо за воспоминания!", p.Title))
	c.Redirect(http.StatusSeeOther, "/posts")
}

// load fetches the post named by the :id parameter, rendering the 404 or
// error page itself when it cannot.
func (ctl *PostController) load(c *gin.Context) (*postPort.PostDTO, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ctl.pages.notFound(c)
		return nil, false
	}
	p, err := ctl.pc.GetPost(c.Request.Context(), id)
	if errors.Is(err, postEntity.ErrNotFound) {
		ctl.pages.notFound(c)
		return nil, false
	}
	if err != nil {
		ctl.pages.fail(c, err)
		return nil, false
	}
	return p, true
}

func (ctl *PostController) renderForm(c *gin.Context, status int, p *postPort.PostDTO, form postForm, errs map[string]string) {
	title := "Новый пост"
	if p != nil {
		title = "Редактирование поста"
	}
	ctl.pages.render(c, status, "post_edit.html", gin.H{
		"Title":  title,
		"Post":   p,
		"Form":   form,
		"Errors": errs,
	})
}

// postErrors reports whether err is a validation failure and, if so, which
// form field it belongs to.
func postErrors(err error) (map[string]string, bool) {
	switch {
	case errors.Is(err, postEntity.ErrEmptyTitle):
		return map[string]string{"Title": "Обязательное поле."}, true
	case errors.Is(err, postEntity.ErrTitleTooLong):
		return map[string]string{"Title": fmt.Sprintf("Не больше %d символов.", postEntity.MaxTitleLength)}, true
	case errors.Is(err, postEntity.ErrEmptyDescription):
		return map[string]string{"Description": "Обязательное поле."}, true
	}
	return nil, false
}

func postPath(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10)
}
