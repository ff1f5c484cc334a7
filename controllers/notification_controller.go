package controllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/factrix/factrix-api/config"
	"github.com/factrix/factrix-api/middleware"
	"github.com/factrix/factrix-api/models"
)

// AddCommentRequest represents the request body for posting a comment
type AddCommentRequest struct {
	OrderID uint   `json:"orderId" binding:"required"`
	Text    string `json:"text" binding:"required"`
}

// AddComment handles POST /notification/comment - appends a comment to the
// order thread and notifies the other participant
func AddComment(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Order and comment text are required.",
			},
		})
		return
	}

	db := config.GetDB()
	order, ok := loadOrderForParticipant(c, db, user, req.OrderID)
	if !ok {
		return
	}

	comment := models.Comment{
		OrderID:  order.ID,
		SenderID: user.ID,
		Text:     strings.TrimSpace(req.Text),
	}
	if err := db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to post comment.",
			},
		})
		return
	}
	comment.Sender = *user

	// Exactly one notification per comment, addressed to the opposite
	// participant
	recipientID := order.FactoryID
	if user.ID == order.FactoryID {
		recipientID = order.MerchantID
	}

	notification := models.Notification{
		RecipientID: recipientID,
		SenderID:    user.ID,
		OrderID:     order.ID,
		Type:        models.NotificationNewComment,
		Message:     "New comment on order " + order.StyleNumber + ".",
	}
	if err := db.Create(&notification).Error; err != nil {
		log.Printf("Failed to create comment notification for order %d: %v", order.ID, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Comment added.",
		"data":    comment,
	})
}

// GetComments handles GET /notification/order/:orderId/comments - returns
// the order's conversation thread oldest first
func GetComments(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	orderID, err := strconv.ParseUint(c.Param("orderId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid order id.",
			},
		})
		return
	}

	db := config.GetDB()
	order, ok := loadOrderForParticipant(c, db, user, uint(orderID))
	if !ok {
		return
	}

	var comments []models.Comment
	err = db.Where("order_id = ?", order.ID).
		Preload("Sender").
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch comments.",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(comments),
		"data":    comments,
	})
}

// GetMyNotifications handles GET /notification - the caller's feed,
// newest first, capped at 100 entries. Factories see notifications addressed
// to them; merchants see the whole stream.
func GetMyNotifications(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	db := config.GetDB()
	query := db.Model(&models.Notification{})
	if user.Role == models.RoleFactory {
		query = query.Where("recipient_id = ?", user.ID)
	}

	var notifications []models.Notification
	err = query.Preload("Sender").
		Preload("Order").
		Order("created_at DESC").
		Limit(100).
		Find(&notifications).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch notifications.",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(notifications),
		"data":    notifications,
	})
}

// loadOrderForParticipant resolves an order and enforces that the caller is
// its merchant or its assigned factory. Writes the error response itself
// when the lookup or the membership check fails.
func loadOrderForParticipant(c *gin.Context, db *gorm.DB, user *models.User, orderID uint) (*models.Order, bool) {
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found.",
			},
		})
		return nil, false
	}

	if user.ID != order.MerchantID && user.ID != order.FactoryID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only participants of this order can view its conversation.",
			},
		})
		return nil, false
	}

	return &order, true
}
