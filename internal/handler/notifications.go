package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
	"github.com/watchdesk/staff-scheduler/backend/internal/notify"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) GetMyNotifications(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	notifications, err := h.repository.GetNotificationsByUser(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取通知列表成功", notifications)
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "无效的通知 ID")
		return
	}

	if err := h.repository.MarkNotificationRead(id, myInfo.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "通知不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "通知已标记为已读", nil)
}

// NotificationsWebSocket 把当前用户挂到通知 hub 上，实时推送新通知
func (h *Handler) NotificationsWebSocket(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	if h.hub == nil {
		h.errorResponse(w, r, "实时通知服务不可用")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("升级 websocket 连接失败", "error", err, "userID", myInfo.ID)
		return
	}

	client := &notify.Client{
		UserID: myInfo.ID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}
	h.hub.Register(client)

	go h.hub.WritePump(client)
	go h.hub.ReadPump(client)
}
