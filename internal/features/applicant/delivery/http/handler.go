package http

import (
	"github.com/gin-gonic/gin"

	"business-visa-backend/internal/common/middleware"
	"business-visa-backend/internal/features/applicant/models"
	applicantservice "business-visa-backend/internal/features/applicant/service"
)

const (
	routeAccept   = "acceptApplicant"
	routeMintVisa = "mintApplicantVisa"
)

type ApplicantHandler struct {
	service applicantservice.ApplicantService
}

func NewApplicantHandler(service applicantservice.ApplicantService) *ApplicantHandler {
	return &ApplicantHandler{service: service}
}

func (h *ApplicantHandler) RegisterRoutes(router *gin.RouterGroup) {
	applicants := router.Group("/applicants")
	{
		applicants.POST("/accept", h.accept)
		applicants.POST("/mint-visa", h.mintVisa)
	}
}

// @Summary Accept an applicant
// @Description Stores an approved applicant and queues the mint of their business visa
// @Tags applicants
// @Accept json
// @Produce json
// @Param input body models.AcceptApplicantRequest true "Shared secret and applicant"
// @Success 200 {object} middleware.SuccessResponse{data=models.AcceptApplicantResponse}
// @Failure 400 {object} middleware.ErrorResponse "Validation error"
// @Failure 401 {object} middleware.ErrorResponse "Secret is not valid"
// @Failure 500 {object} middleware.ErrorResponse "Route error"
// @Router /applicants/accept [post]
func (h *ApplicantHandler) accept(c *gin.Context) {
	var input models.AcceptApplicantRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.RespondError(c, routeAccept, bindError(err))
		return
	}

	resp, err := h.service.Accept(c.Request.Context(), &input)
	if err != nil {
		middleware.RespondError(c, routeAccept, err)
		return
	}

	middleware.RespondSuccess(c, resp, "Applicant accepted successfully")
}

// @Summary Mint an applicant's business visa
// @Description Mints the visa NFT, records it and emails the claim link. Also the webhook target of the mint-visa job.
// @Tags applicants
// @Accept json
// @Produce json
// @Param input body models.MintApplicantVisaRequest true "Shared secret and applicant id"
// @Success 200 {object} middleware.SuccessResponse{data=models.MintApplicantVisaResponse}
// @Failure 400 {object} middleware.ErrorResponse "Validation error"
// @Failure 401 {object} middleware.ErrorResponse "Secret is not valid"
// @Failure 500 {object} middleware.ErrorResponse "Not found, already minted or any other failure"
// @Router /applicants/mint-visa [post]
func (h *ApplicantHandler) mintVisa(c *gin.Context) {
	var input models.MintApplicantVisaRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.RespondError(c, routeMintVisa, bindError(err))
		return
	}

	resp, err := h.service.MintVisa(c.Request.Context(), &input)
	if err != nil {
		middleware.RespondError(c, routeMintVisa, err)
		return
	}

	middleware.RespondSuccess(c, resp, "Business visa claim link sent to applicant successfully")
}
