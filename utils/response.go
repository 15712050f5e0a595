package utils

import (
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

type PageMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

func JSONPage(ctx iris.Context, data interface{}, page, perPage int, total int64) {
	ctx.JSON(iris.Map{
		"data": data,
		"meta": PageMeta{Page: page, PerPage: perPage, Total: total},
	})
}

func CreateError(statusCode int, title string, detail string, ctx iris.Context) {
	ctx.StopWithJSON(statusCode, iris.Map{
		"error": iris.Map{
			"title":  title,
			"detail": detail,
		},
	})
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(
		iris.StatusInternalServerError,
		"Internal Server Error",
		"An unexpected error occurred.", ctx)
}

func CreateNotFound(ctx iris.Context) {
	CreateError(iris.StatusNotFound, "Not Found", "Resource not found.", ctx)
}

func CreateAccountAlreadyRegistered(ctx iris.Context) {
	CreateError(iris.StatusConflict, "Conflict", "Account is already registered.", ctx)
}

// HandleValidationErrors turns ctx.ReadJSON failures into a 400 with one
// entry per failed validator tag.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		validationErrors := make([]iris.Map, 0, len(errs))
		for _, fieldErr := range errs {
			validationErrors = append(validationErrors, iris.Map{
				"field": fieldErr.Field(),
				"tag":   fieldErr.Tag(),
				"value": fieldErr.Param(),
			})
		}
		CreateValidationError(validationErrors, ctx)
		return
	}
	CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
}

func CreateValidationError(errors []iris.Map, ctx iris.Context) {
	ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{
		"error": iris.Map{
			"title":            "Validation Error",
			"validationErrors": errors,
		},
	})
}
