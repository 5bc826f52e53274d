package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"textapi/internal/service"
)

type analysisResponse struct {
	TaskID string `json:"taskId" example:"01HZX3Z1B2C3D4E5F6G7H8J9KM"`
}

// InitiateAnalysis godoc
// @Summary      Analyze an uploaded file
// @Description  Runs countWords, countUniqueWords or findTopKWords synchronously and stores the result.
// @Description  findTopKWords reads k from options, as a number or {"k": n}.
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        request  body  service.AnalysisRequest  true  "Analysis request"
// @Success      200  {object}  analysisResponse
// @Failure      400  {object}  errorPayload
// @Failure      404  {object}  errorPayload
// @Failure      500  {object}  errorPayload
// @Router       /analysis [post]
func InitiateAnalysis(svc service.AnalysisService, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.AnalysisRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return opts.fail(c, "initiate_analysis", fmt.Errorf("%w: %w", service.ErrInvalidRequest, err))
			}
		}

		res, err := svc.Initiate(c.UserContext(), req)
		if err != nil {
			return opts.fail(c, "initiate_analysis", err)
		}
		return c.JSON(analysisResponse{TaskID: res.TaskID})
	}
}

// GetAnalysisResult godoc
// @Summary  Get an analysis result
// @Tags     analysis
// @Produce  json
// @Param    taskId  path  string  true  "Task ID"
// @Success  200  {object}  model.AnalysisResult
// @Failure  404  {object}  errorPayload
// @Failure  500  {object}  errorPayload
// @Router   /analysis/{taskId} [get]
func GetAnalysisResult(svc service.AnalysisService, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Get(c.UserContext(), c.Params("taskId"))
		if err != nil {
			return opts.fail(c, "get_analysis", err)
		}
		return c.JSON(res)
	}
}

// ListFileAnalyses godoc
// @Summary  List analyses of a file
// @Tags     analysis
// @Produce  json
// @Param    fileId  path   string  true   "File ID"
// @Param    limit   query  int     false  "Page size"  default(10)
// @Param    offset  query  int     false  "Offset"     default(0)
// @Success  200  {object}  service.AnalysisListResult
// @Failure  404  {object}  errorPayload
// @Router   /files/{fileId}/analyses [get]
func ListFileAnalyses(svc service.AnalysisService, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, ok := pageParams(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "Invalid pagination parameters")
		}
		res, err := svc.ListByFile(c.UserContext(), c.Params("fileId"), limit, offset)
		if err != nil {
			return opts.failLookup(c, "list_file_analyses", err)
		}
		return c.JSON(res)
	}
}
