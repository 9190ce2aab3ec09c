package websocket

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Проверка Origin выполняется на уровне reverse-proxy
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler возвращает HTTP-обработчик апгрейда WebSocket-соединения.
// Fiber работает поверх fasthttp, поэтому realtime-канал обслуживается
// отдельным net/http листенером.
func Handler(manager *Manager, jwtService *utils.JWTService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Токен передается query-параметром: браузерный WebSocket API
		// не позволяет задать заголовок Authorization
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		userID, err := jwtService.ExtractUserID(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		if _, err := uuid.Parse(userID); err != nil {
			http.Error(w, "invalid user id", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("Ошибка апгрейда WebSocket: %v", err)
			return
		}

		client := NewClient(userID, conn, manager)
		client.Start()
	}
}

// Serve запускает отдельный HTTP-сервер для WebSocket-соединений
func Serve(addr string, manager *Manager, jwtService *utils.JWTService) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/api/ws", Handler(manager, jwtService))

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		log.Printf("✅ WebSocket сервер запущен на %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Ошибка WebSocket сервера: %v", err)
		}
	}()
	return srv
}
