// Package handler はmessageフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"lab_backend/internal/api"
	"lab_backend/internal/feature/message/domain/entity"
	"lab_backend/internal/feature/message/transport/http/dto"
	"lab_backend/internal/feature/message/usecase"
	jwtmw "lab_backend/internal/platform/jwt"
)

// MessageUsecase はメッセージ送受信のユースケースを定義します。
type MessageUsecase interface {
	Send(ctx context.Context, senderID uint, in usecase.SendInput) (*usecase.SendResult, error)
	ListReceived(ctx context.Context, userID uint) ([]entity.ReceivedMessage, error)
}

// MessageHandler はメッセージ関連のHTTPリクエストを処理します。
type MessageHandler struct {
	messages MessageUsecase
}

// NewMessageHandler はMessageHandlerの新しいインスタンスを生成します。
func NewMessageHandler(messages MessageUsecase) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Send はメッセージを送信し、受信者へプッシュ通知を配信します。
func (h *MessageHandler) Send(c *gin.Context) {
	userID, ok := jwtmw.CurrentUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, api.CodeUnauthenticated, "authentication required")
		return
	}

	var req dto.SendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, api.CodeInvalidRequest, "invalid request body")
		return
	}

	res, err := h.messages.Send(c.Request.Context(), userID, usecase.SendInput{
		Title:         req.Title,
		Body:          req.Body,
		ReceiverEmail: req.Receiver(),
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidMessage):
			api.Fail(c, http.StatusBadRequest, api.CodeInvalidRequest, err.Error())
		case errors.Is(err, usecase.ErrReceiverNotFound):
			api.Fail(c, http.StatusNotFound, api.CodeUserNotFound, err.Error())
		default:
			slog.Error("send message failed", "sender_id", userID, "error", err)
			api.Fail(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
		}
		return
	}
	slog.Info("message sent", "message_id", res.Message.ID, "sender_id", userID,
		"devices", res.Notification.TotalDevices, "delivered", res.Notification.SuccessCount)
	api.OK(c, http.StatusCreated, "message sent", res)
}

// Received は認証済みユーザーが受信したメッセージを新しい順に返します。
func (h *MessageHandler) Received(c *gin.Context) {
	userID, ok := jwtmw.CurrentUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, api.CodeUnauthenticated, "authentication required")
		return
	}
	messages, err := h.messages.ListReceived(c.Request.Context(), userID)
	if err != nil {
		slog.Error("list received messages failed", "user_id", userID, "error", err)
		api.Fail(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	if messages == nil {
		messages = []entity.ReceivedMessage{}
	}
	api.OK(c, http.StatusOK, "ok", messages)
}
