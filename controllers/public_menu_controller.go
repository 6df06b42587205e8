package controllers

import (
	"errors"
	"net/http"

	"github.com/iluvios/menumagic-sub001/service"
	"github.com/iluvios/menumagic-sub001/utils"

	"github.com/gin-gonic/gin"
)

type PublicMenuController struct {
	svc service.MenuService
}

func NewPublicMenuController(svc service.MenuService) *PublicMenuController {
	return &PublicMenuController{svc: svc}
}

type menuPage struct {
	Menu       service.PublicMenu
	Background string
	Accent     string
	Footer     string
}

func settingString(settings map[string]any, key, def string) string {
	if v, ok := settings[key].(string); ok && v != "" {
		return v
	}
	return def
}

// Show handles GET /menu/:id. Browsers get HTML; clients asking for
// application/json get the same data as JSON.
func (h *PublicMenuController) Show(c *gin.Context) {
	wantJSON := c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON

	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	menu, err := h.svc.Public(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) && !wantJSON {
			c.HTML(http.StatusNotFound, "menu_missing", nil)
			return
		}
		respondError(c, err)
		return
	}

	if wantJSON {
		utils.Success(c, http.StatusOK, "", menu)
		return
	}
	c.HTML(http.StatusOK, "public_menu", menuPage{
		Menu:       menu,
		Background: settingString(menu.Settings, "background_color", "#fffdf8"),
		Accent:     settingString(menu.Settings, "accent_color", "#c0392b"),
		Footer:     settingString(menu.Settings, "footer_text", ""),
	})
}
