package handler

import (
	"errors"
	"net/http"

	"gatormmunity/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ResponseData 统一响应结构体
type ResponseData struct {
	Status  string `json:"status"`         // "success" 或 "error"
	Code    int    `json:"code"`           // 业务响应状态码
	Message string `json:"message"`        // 提示信息
	Data    any    `json:"data,omitempty"` // 数据
}

// HandleSuccess 返回成功响应
func HandleSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, ResponseData{
		Status:  "success",
		Code:    errorx.CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// HandleError 通用错误处理方法
// errorx.CodeError 原样返回错误码和消息，其他错误记录日志后统一为 CodeServerBusy
func HandleError(c *gin.Context, err error) {
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) {
		c.JSON(http.StatusOK, ResponseData{
			Status:  "error",
			Code:    codeErr.Code,
			Message: codeErr.Msg,
		})
		return
	}

	zap.L().Error("system error",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	c.JSON(http.StatusOK, ResponseData{
		Status:  "error",
		Code:    errorx.ErrServerBusy.Code,
		Message: errorx.ErrServerBusy.Msg,
	})
}

// HandleParamError 处理参数绑定错误（带 validator 翻译支持）
// 翻译后的字段错误放在 data 中，message 为第一条错误
func HandleParamError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && Trans != nil {
		fields := RemoveTopStruct(validationErrs.Translate(Trans))
		msg := errorx.ErrInvalidParam.Msg
		if len(validationErrs) > 0 {
			msg = validationErrs[0].Translate(Trans)
		}
		c.JSON(http.StatusOK, ResponseData{
			Status:  "error",
			Code:    errorx.CodeInvalidParam,
			Message: msg,
			Data:    fields,
		})
		return
	}

	// 非 validator 错误（如 JSON 格式错误）
	zap.L().Debug("param bind error", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusOK, ResponseData{
		Status:  "error",
		Code:    errorx.CodeInvalidParam,
		Message: errorx.ErrInvalidParam.Msg,
	})
}
