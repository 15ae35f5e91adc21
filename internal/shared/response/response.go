package response

import (
	"github.com/gin-gonic/gin"
)

// PaginationMeta describes one page of a cursor-paged list. Total counts the
// rows on this page; NextCursor is empty on the last page.
type PaginationMeta struct {
	Total      int64  `json:"total"`
	Limit      int    `json:"limit"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

func NewCursorMeta(count, limit int, nextCursor string) PaginationMeta {
	return PaginationMeta{
		Total:      int64(count),
		Limit:      limit,
		NextCursor: nextCursor,
		HasMore:    nextCursor != "",
	}
}

// ErrorBody is the error member of a failed envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

type ApiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  any             `json:"data,omitempty"`
	Meta  *PaginationMeta `json:"meta,omitempty"`
	Error *ErrorBody      `json:"error,omitempty"`
}

func Success(c *gin.Context, status int, data any, meta *PaginationMeta) {
	c.JSON(status, ApiEnvelope{Ok: true, Data: data, Meta: meta})
}

func Error(c *gin.Context, status int, errorCode string, message string, details any) {
	c.JSON(status, ApiEnvelope{
		Ok: false,
		Error: &ErrorBody{
			Code:    errorCode,
			Message: message,
			Details: details,
		},
	})
}
