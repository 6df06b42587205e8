package controllers

import (
	"net/http"

	"github.com/iluvios/menumagic-sub001/utils"

	"github.com/gin-gonic/gin"
)

// GenerateQRCode handles POST /api/qr {"url": "..."} and answers with a
// base64 PNG data URI.
func GenerateQRCode(c *gin.Context) {
	var in struct {
		URL string `json:"url" binding:"required"`
	}
	if !bindJSON(c, &in) {
		return
	}
	dataURI, err := utils.QRCodeDataURI(in.URL)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "cannot encode url", err)
		return
	}
	utils.Success(c, http.StatusOK, "", gin.H{"data_uri": dataURI})
}
