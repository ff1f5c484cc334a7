package controllers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/factrix/factrix-api/config"
	"github.com/factrix/factrix-api/middleware"
	"github.com/factrix/factrix-api/models"
	"github.com/factrix/factrix-api/services"
	"github.com/factrix/factrix-api/utils"
)

// UpdateStatusRequest represents the request body for a status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrder handles POST /order/create - creates an order and its four
// sub-documents (merchants only)
//
// The techpack blob is mandatory; any blob upload failure aborts the whole
// operation. The order and all four sub-documents are created in a single
// transaction so a partial aggregate can never persist.
func CreateOrder(c *gin.Context) {
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

	styleNumber := strings.TrimSpace(c.PostForm("styleNumber"))
	buyerName := strings.TrimSpace(c.PostForm("buyerName"))
	quantityRaw := strings.TrimSpace(c.PostForm("orderQuantity"))
	shipmentRaw := strings.TrimSpace(c.PostForm("shipmentDate"))
	season := strings.TrimSpace(c.PostForm("season"))
	factoryOrg := strings.TrimSpace(c.PostForm("factoryOrganisationName"))

	if styleNumber == "" || buyerName == "" || quantityRaw == "" || shipmentRaw == "" || season == "" || factoryOrg == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Please fill all required fields to start the workflow.",
			},
		})
		return
	}

	orderQuantity, err := strconv.Atoi(quantityRaw)
	if err != nil || orderQuantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Order Quantity must be a positive number.",
			},
		})
		return
	}

	shipmentDate, ok := parseDate(shipmentRaw)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Shipment Date is not a valid date.",
			},
		})
		return
	}

	db := config.GetDB()

	// Resolve the factory by organisation name, case-insensitively
	var factory models.User
	err = db.Where("LOWER(organisation_name) = LOWER(?) AND role = ? AND is_active = ?",
		factoryOrg, models.RoleFactory, true).First(&factory).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FACTORY_NOT_FOUND",
				"message": "No active factory found with this organisation name.",
			},
		})
		return
	}

	var count int64
	db.Model(&models.Order{}).Where("style_number = ?", styleNumber).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DUPLICATE_STYLE_NUMBER",
				"message": "Style Number already exists.",
			},
		})
		return
	}

	// The techpack (PDF/ZIP) is mandatory for new orders
	techpackHeader, err := c.FormFile("techpack")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A Techpack (PDF/ZIP) is mandatory for new orders.",
			},
		})
		return
	}

	techpackUpload, uploadErr := validateAndUpload(techpackHeader)
	if uploadErr != nil {
		respondUploadError(c, uploadErr, "Techpack upload failed.")
		return
	}

	// Preview photo is optional, but once supplied its upload failure
	// aborts the creation like any other blob failure
	var previewPhoto models.FileRef
	if previewHeader, err := c.FormFile("previewPhoto"); err == nil {
		previewUpload, uploadErr := validateAndUpload(previewHeader)
		if uploadErr != nil {
			respondUploadError(c, uploadErr, "Preview photo upload failed.")
			return
		}
		previewPhoto = models.FileRef{URL: previewUpload.URL, S3Key: previewUpload.S3Key}
	}

	order := models.Order{
		StyleNumber:   styleNumber,
		BuyerName:     buyerName,
		OrderQuantity: orderQuantity,
		ShipmentDate:  shipmentDate,
		Season:        season,
		PreviewPhoto:  previewPhoto,
		MerchantID:    user.ID,
		FactoryID:     factory.ID,
		Status:        models.StatusPending,
		IsActive:      true,
	}

	// One unit of work: the order and its four sub-documents either all
	// exist or none do
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		tna := models.TNA{OrderID: order.ID}
		if err := tx.Create(&tna).Error; err != nil {
			return err
		}

		fabric := models.Fabric{OrderID: order.ID, ColorName: "TBD"}
		if err := tx.Create(&fabric).Error; err != nil {
			return err
		}

		techpack := models.TechpackIteration{
			OrderID:      order.ID,
			TechpackFile: models.FileRef{URL: techpackUpload.URL, S3Key: techpackUpload.S3Key},
		}
		if err := tx.Create(&techpack).Error; err != nil {
			return err
		}

		costing := models.Costing{OrderID: order.ID}
		if err := tx.Create(&costing).Error; err != nil {
			return err
		}

		order.TNAID = tna.ID
		order.FabricID = fabric.ID
		order.TechpackID = techpack.ID
		order.CostingID = costing.ID
		return tx.Model(&order).Updates(map[string]interface{}{
			"tna_id":      tna.ID,
			"fabric_id":   fabric.ID,
			"techpack_id": techpack.ID,
			"costing_id":  costing.ID,
		}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DUPLICATE_STYLE_NUMBER",
					"message": "Style Number already exists.",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order.",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Style Order created successfully!",
		"order":   order,
	})
}

// GetOrderDetails handles GET /order/details/:orderId - fully resolves the
// aggregate: all four sub-documents plus both participants
func GetOrderDetails(c *gin.Context) {
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

	orderID := c.Param("orderId")
	db := config.GetDB()

	var order models.Order
	err = db.Preload("TNA").
		Preload("Fabric").
		Preload("Techpack").
		Preload("Costing").
		Preload("Merchant").
		Preload("Factory").
		First(&order, orderID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found.",
			},
		})
		return
	}

	// Factories may only read orders assigned to them; merchants may read
	// any order
	if user.Role == models.RoleFactory && order.FactoryID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have access to this order.",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateTNA handles PATCH /order/update-tna/:tnaId (merchants only)
func UpdateTNA(c *gin.Context) {
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
	var tna models.TNA
	if err := db.First(&tna, c.Param("tnaId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TNA_NOT_FOUND",
				"message": "TNA not found.",
			},
		})
		return
	}

	// Partial patch: only fields present in the form are touched
	applyDateField(c, "greigeCommit", &tna.GreigeCommit)
	applyDateField(c, "colorCommit", &tna.ColorCommit)
	applyDateField(c, "ppApproval", &tna.PPApproval)
	applyDateField(c, "cutDate", &tna.CutDate)
	applyDateField(c, "gacDate", &tna.GACDate)
	applyDateField(c, "tnaClosedWithBuyer", &tna.TNAClosedWithBuyer)
	tna.LastUpdatedByID = &user.ID

	if err := db.Save(&tna).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update TNA.",
			},
		})
		return
	}

	// The sketch belongs to the parent order, applied only after the
	// sub-document write succeeded
	storeFabricSketch(c, db, tna.OrderID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "TNA milestones and Order sketch updated successfully!",
		"data":    tna,
	})
}

// UpdateFabric handles PATCH /order/update-fabric/:fabricId (merchants only)
func UpdateFabric(c *gin.Context) {
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
	var fabric models.Fabric
	if err := db.First(&fabric, c.Param("fabricId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FABRIC_NOT_FOUND",
				"message": "Fabric not found.",
			},
		})
		return
	}

	if v, ok := c.GetPostForm("colorName"); ok && strings.TrimSpace(v) != "" {
		fabric.ColorName = strings.TrimSpace(v)
	}
	if v, ok := c.GetPostForm("pantoneCode"); ok {
		fabric.PantoneCode = strings.TrimSpace(v)
	}
	if v, ok := c.GetPostForm("pantoneColorHex"); ok && strings.TrimSpace(v) != "" {
		fabric.PantoneColorHex = strings.TrimSpace(v)
	}
	applyDateField(c, "labDipApprovalDate", &fabric.LabDipApprovalDate)
	applyDateField(c, "iobApprovalDate", &fabric.IOBApprovalDate)
	applyDateField(c, "bulkInhouseDate", &fabric.BulkInhouseDate)
	applyDateField(c, "lotApprovalDate", &fabric.LotApprovalDate)
	fabric.LastUpdatedByID = &user.ID

	if err := db.Save(&fabric).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update Fabric.",
			},
		})
		return
	}

	storeFabricSketch(c, db, fabric.OrderID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Fabric details and Order sketch updated successfully!",
		"data":    fabric,
	})
}

// UpdateTechpack handles PATCH /order/update-techpack/:techpackId
// (merchants only). Carries two independent attachment slots: the techpack
// file stored on the sub-document and the fabric sketch stored on the
// parent order.
func UpdateTechpack(c *gin.Context) {
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
	var techpack models.TechpackIteration
	if err := db.First(&techpack, c.Param("techpackId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TECHPACK_NOT_FOUND",
				"message": "Techpack not found.",
			},
		})
		return
	}

	applyDateField(c, "initialTPDate", &techpack.InitialTPDate)
	applyDateField(c, "firstFitSubmissionDate", &techpack.FirstFitSubmissionDate)
	applyDateField(c, "secondFitSubmissionDate", &techpack.SecondFitSubmissionDate)
	applyDateField(c, "ppApprovalDate", &techpack.PPApprovalDate)
	techpack.LastUpdatedByID = &user.ID

	// A failed techpack upload skips only this field; the rest of the
	// patch still applies
	if fileHeader, err := c.FormFile("techpackFile"); err == nil {
		if upload, uploadErr := validateAndUpload(fileHeader); uploadErr == nil {
			techpack.TechpackFile = models.FileRef{URL: upload.URL, S3Key: upload.S3Key}
		} else {
			log.Printf("Techpack file upload failed, leaving field unset: %v", uploadErr)
		}
	}

	if err := db.Save(&techpack).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update Techpack.",
			},
		})
		return
	}

	storeFabricSketch(c, db, techpack.OrderID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Techpack milestones and visual sketch updated successfully!",
		"data":    techpack,
	})
}

// UpdateCosting handles PATCH /order/update-costing/:costingId (either
// role). FinalCost is recomputed from the components on save; flipping
// isApproved on notifies the order partner.
func UpdateCosting(c *gin.Context) {
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
	var costing models.Costing
	if err := db.First(&costing, c.Param("costingId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "COSTING_NOT_FOUND",
				"message": "Costing document not found.",
			},
		})
		return
	}

	wasApproved := costing.IsApproved

	applyMoneyField(c, "fabricCost", &costing.FabricCost)
	applyMoneyField(c, "trim", &costing.Trim)
	applyMoneyField(c, "packagingWithYY", &costing.PackagingWithYY)
	applyMoneyField(c, "washingCost", &costing.WashingCost)
	applyMoneyField(c, "testing", &costing.Testing)
	applyMoneyField(c, "cutMakingCost", &costing.CutMakingCost)
	applyMoneyField(c, "overheads", &costing.Overheads)

	if v, ok := c.GetPostForm("isApproved"); ok {
		costing.IsApproved = v == "true" || v == "1"
	}

	if fileHeader, err := c.FormFile("costingSheet"); err == nil {
		if upload, uploadErr := validateAndUpload(fileHeader); uploadErr == nil {
			costing.CostingSheet = models.FileRef{URL: upload.URL, S3Key: upload.S3Key}
		} else {
			log.Printf("Costing sheet upload failed, leaving field unset: %v", uploadErr)
		}
	}

	costing.LastUpdatedByID = &user.ID

	// Save runs the BeforeSave hook, which recomputes FinalCost
	if err := db.Save(&costing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update Costing.",
			},
		})
		return
	}

	storeFabricSketch(c, db, costing.OrderID)

	if costing.IsApproved && !wasApproved {
		notifyCostingApproved(db, costing.OrderID, user)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Costing updated and Final Cost recalculated!",
		"data":    costing,
	})
}

// UpdateOrderStatus handles PATCH /order/update-status/:orderId
//
// There is no enforced transition graph. Merchants may set any status on
// any order; factories only shipped/delivered on their own orders.
func UpdateOrderStatus(c *gin.Context) {
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

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Status is required.",
			},
		})
		return
	}

	if !models.IsValidOrderStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid status value.",
			},
		})
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, c.Param("orderId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found.",
			},
		})
		return
	}

	if user.Role == models.RoleFactory {
		if order.FactoryID != user.ID {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "You do not have access to this order.",
				},
			})
			return
		}
		allowed := false
		for _, s := range models.FactoryAllowedStatuses {
			if s == req.Status {
				allowed = true
				break
			}
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Factory can only set status to Shipped or Delivered.",
				},
			})
			return
		}
	}

	if err := db.Model(&order).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order status.",
			},
		})
		return
	}
	order.Status = req.Status

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order status updated.",
		"data":    order,
	})
}

// GetAllOrders handles GET /order/all?search= - lists active orders visible
// to the caller, newest first
func GetAllOrders(c *gin.Context) {
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
	query := db.Model(&models.Order{}).Where("is_active = ?", true)

	// Factories see only orders assigned to them; merchants see all
	if user.Role == models.RoleFactory {
		query = query.Where("factory_id = ?", user.ID)
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where(`LOWER(style_number) LIKE ? ESCAPE '\' OR LOWER(buyer_name) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	var orders []models.Order
	err = query.Preload("Merchant").
		Preload("Factory").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders.",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(orders),
		"data":    orders,
	})
}

// SearchOrderByStyle handles GET /order/search?q= - lightweight
// style-number lookup for live typing, capped at 10 results
func SearchOrderByStyle(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Please provide a style number to search.",
			},
		})
		return
	}

	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"

	var orders []models.Order
	err := config.GetDB().
		Where(`LOWER(style_number) LIKE ? ESCAPE '\'`, pattern).
		Limit(10).
		Find(&orders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to search orders.",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(orders),
		"data":    orders,
	})
}

// storeFabricSketch uploads the request's fabricSketch attachment, if any,
// and overwrites the parent order's shared FabricSketch field. Runs after
// the sub-document write so a sketch failure never loses the patch; the
// failure is logged and the order left untouched.
func storeFabricSketch(c *gin.Context, db *gorm.DB, orderID uint) {
	fileHeader, err := c.FormFile("fabricSketch")
	if err != nil {
		return
	}

	upload, uploadErr := validateAndUpload(fileHeader)
	if uploadErr != nil {
		log.Printf("Fabric sketch upload failed for order %d: %v", orderID, uploadErr)
		return
	}

	err = db.Model(&models.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
		"fabric_sketch_url":    upload.URL,
		"fabric_sketch_s3_key": upload.S3Key,
	}).Error
	if err != nil {
		log.Printf("Failed to store fabric sketch on order %d: %v", orderID, err)
	}
}

// notifyCostingApproved tells the order partner that costing was approved
func notifyCostingApproved(db *gorm.DB, orderID uint, actor *models.User) {
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		log.Printf("Costing approval notification skipped, order %d not found: %v", orderID, err)
		return
	}

	recipientID := order.FactoryID
	if actor.Role == models.RoleFactory {
		recipientID = order.MerchantID
	}

	notification := models.Notification{
		RecipientID: recipientID,
		SenderID:    actor.ID,
		OrderID:     order.ID,
		Type:        models.NotificationCostingApproved,
		Message:     "Costing approved for order " + order.StyleNumber + ".",
	}
	if err := db.Create(&notification).Error; err != nil {
		log.Printf("Failed to create costing approval notification: %v", err)
	}
}

// uploadError distinguishes caller mistakes (bad file) from upstream blob
// store failures
type uploadError struct {
	code       string
	message    string
	statusCode int
}

func (e *uploadError) Error() string { return e.message }

// validateAndUpload validates an attachment and hands it to the blob store
func validateAndUpload(fileHeader *multipart.FileHeader) (services.FileUpload, *uploadError) {
	if err := utils.ValidateUploadFile(fileHeader); err != nil {
		var fileErr *utils.FileUploadError
		if errors.As(err, &fileErr) {
			return services.FileUpload{}, &uploadError{
				code:       fileErr.Code,
				message:    fileErr.Message,
				statusCode: http.StatusBadRequest,
			}
		}
		return services.FileUpload{}, &uploadError{
			code:       "VALIDATION_ERROR",
			message:    err.Error(),
			statusCode: http.StatusBadRequest,
		}
	}

	upload, err := services.GetS3Service().UploadFile(fileHeader)
	if err != nil {
		return services.FileUpload{}, &uploadError{
			code:       "UPLOAD_ERROR",
			message:    err.Error(),
			statusCode: http.StatusInternalServerError,
		}
	}
	return upload, nil
}

// respondUploadError writes an upload failure in the standard envelope
func respondUploadError(c *gin.Context, err *uploadError, fallbackMessage string) {
	message := err.message
	if err.statusCode == http.StatusInternalServerError {
		message = fallbackMessage
	}
	c.JSON(err.statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    err.code,
			"message": message,
		},
	})
}

// applyDateField patches a nullable date from the form when present. An
// empty value clears the date.
func applyDateField(c *gin.Context, key string, target **time.Time) {
	v, ok := c.GetPostForm(key)
	if !ok {
		return
	}
	v = strings.TrimSpace(v)
	if v == "" {
		*target = nil
		return
	}
	if parsed, ok := parseDate(v); ok {
		*target = &parsed
	}
}

// applyMoneyField patches a cost component from the form when present.
// Unparseable values fall back to zero, matching the order form behavior.
func applyMoneyField(c *gin.Context, key string, target *float64) {
	v, ok := c.GetPostForm(key)
	if !ok || strings.TrimSpace(v) == "" {
		return
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		parsed = 0
	}
	*target = parsed
}

// parseDate accepts the date-only form format and full RFC 3339 timestamps
func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// escapeLike neutralizes LIKE wildcards in user-supplied search terms
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
