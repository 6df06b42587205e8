package middlewares

import (
	"net/http"
	"strings"

	"github.com/iluvios/menumagic-sub001/models"
	"github.com/iluvios/menumagic-sub001/utils"

	"github.com/gin-gonic/gin"
)

const SessionKey = "session"

// SessionAuth accepts the mm_session cookie, or a Bearer token carrying the
// same JWT, and stores the decoded models.Session under SessionKey.
func SessionAuth(signer *utils.SessionSigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(utils.SessionCookieName)
		if token == "" {
			if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			}
		}
		if token == "" {
			utils.Error(c, http.StatusUnauthorized, "authentication required", nil)
			return
		}

		sess, err := signer.Parse(token)
		if err != nil {
			utils.Error(c, http.StatusUnauthorized, "authentication required", nil)
			return
		}

		c.Set(SessionKey, sess)
		c.Next()
	}
}

// CurrentSession reads what SessionAuth stored.
func CurrentSession(c *gin.Context) (models.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return models.Session{}, false
	}
	sess, ok := v.(models.Session)
	if !ok || sess.UserID == 0 || sess.RestaurantID == 0 {
		return models.Session{}, false
	}
	return sess, true
}
