package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/middleware"
	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/models"
	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/util"
)

type changePasswordReq struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=64"`
}

// ChangePassword handles POST /api/users/password. The new password is
// re-hashed with the same cost as registration.
func ChangePassword(db *gorm.DB, bcryptCost int) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			util.Error(c, http.StatusUnauthorized, "No Bearer token")
			return
		}

		var req changePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, "Old and new password (min 6 chars) required")
			return
		}

		if err := models.ChangePassword(db, user, req.OldPassword, req.NewPassword, bcryptCost); err != nil {
			var ve *models.ValidationError
			if errors.As(err, &ve) {
				util.Error(c, http.StatusBadRequest, ve.Msg)
			} else {
				util.Error(c, http.StatusInternalServerError, "Server error")
			}
			return
		}

		util.Success(c, http.StatusOK, util.Response{
			"message": "Password changed - login again with the new password",
		})
	}
}
