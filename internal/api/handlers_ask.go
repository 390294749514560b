// handlers_ask.go - Question answering handler
package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/simkoong/filesearch-milky/internal/answer"
	"github.com/simkoong/filesearch-milky/internal/logging"
)

// AskHandlerImpl implements the AskHandler interface
type AskHandlerImpl struct {
	answerer answer.Answerer
	log      logging.Logger
}

// NewAskHandler creates a new ask handler instance
func NewAskHandler(answerer answer.Answerer, log logging.Logger) AskHandler {
	return &AskHandlerImpl{
		answerer: answerer,
		log:      log,
	}
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// askErrorResponse is the ask wire shape for failures: {"error": "..."}.
type askErrorResponse struct {
	Error string `json:"error"`
}

// HandleAsk answers a user question from the indexed documents.
func (h *AskHandlerImpl) HandleAsk(c echo.Context) error {
	var req askRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, askErrorResponse{Error: "invalid JSON body"})
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return c.JSON(http.StatusBadRequest, askErrorResponse{Error: "question must not be empty"})
	}

	ctx := c.Request().Context()
	ans, err := h.answerer.Answer(ctx, question)
	if err != nil {
		h.log.Error(ctx, "answering failed", "error", err)
		return c.JSON(http.StatusInternalServerError, askErrorResponse{Error: "failed to answer the question"})
	}

	return c.JSON(http.StatusOK, askResponse{Answer: ans})
}
