package dev

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ReloadMessageType represents the type of reload message.
type ReloadMessageType string

const (
	ReloadTypeFull  ReloadMessageType = "reload"
	ReloadTypeError ReloadMessageType = "error"
	ReloadTypeClear ReloadMessageType = "clear"
)

// ReloadMessage is sent to browsers via WebSocket.
type ReloadMessage struct {
	Type  ReloadMessageType `json:"type"`
	Error string            `json:"error,omitempty"`
	Files []string          `json:"files,omitempty"`
}

const writeWait = 5 * time.Second

// ReloadServer fans reload notifications out to connected preview pages.
type ReloadServer struct {
	clients  map[*websocket.Conn]*sync.Mutex
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewReloadServer creates a new reload server.
func NewReloadServer(logger *slog.Logger) *ReloadServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReloadServer{
		clients: make(map[*websocket.Conn]*sync.Mutex),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The preview server only listens locally.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// ServeHTTP upgrades the request and holds the connection until the client
// goes away.
func (r *ReloadServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Debug("reload upgrade failed", "error", err)
		return
	}

	r.mu.Lock()
	r.clients[conn] = &sync.Mutex{}
	r.mu.Unlock()
	r.logger.Debug("reload client connected", "remote", req.RemoteAddr)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	r.remove(conn)
}

func (r *ReloadServer) remove(conn *websocket.Conn) {
	r.mu.Lock()
	_, ok := r.clients[conn]
	delete(r.clients, conn)
	r.mu.Unlock()
	if ok {
		conn.Close()
	}
}

// NotifyReload tells every client that files changed.
func (r *ReloadServer) NotifyReload(files []string) {
	r.broadcast(ReloadMessage{Type: ReloadTypeFull, Files: files})
}

// NotifyError shows a composition error on every client.
func (r *ReloadServer) NotifyError(errMsg string) {
	r.broadcast(ReloadMessage{Type: ReloadTypeError, Error: errMsg})
}

// ClearError clears the error overlay on all clients.
func (r *ReloadServer) ClearError() {
	r.broadcast(ReloadMessage{Type: ReloadTypeClear})
}

func (r *ReloadServer) broadcast(msg ReloadMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	r.mu.RLock()
	type client struct {
		conn *websocket.Conn
		mu   *sync.Mutex
	}
	clients := make([]client, 0, len(r.clients))
	for conn, mu := range r.clients {
		clients = append(clients, client{conn, mu})
	}
	r.mu.RUnlock()

	for _, c := range clients {
		c.mu.Lock()
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := c.conn.WriteMessage(websocket.TextMessage, data)
		c.mu.Unlock()
		if err != nil {
			r.remove(c.conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (r *ReloadServer) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Close closes all client connections.
func (r *ReloadServer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for conn := range r.clients {
		conn.Close()
		delete(r.clients, conn)
	}
}

// ReloadPath is where preview pages connect for reload notifications.
const ReloadPath = "/_wingman/reload"

// ClientScript is appended to every preview page.
const ClientScript = `
<script>
(function() {
    'use strict';

    var delay = 1000;

    function overlay(text) {
        var el = document.getElementById('wingman-error');
        if (!text) {
            if (el) el.remove();
            return;
        }
        if (!el) {
            el = document.createElement('pre');
            el.id = 'wingman-error';
            el.style.cssText = 'position:fixed;inset:0;margin:0;padding:24px;background:rgba(20,20,20,0.95);color:#ff6b6b;font:13px/1.5 monospace;white-space:pre-wrap;overflow:auto;z-index:99999;';
            document.body.appendChild(el);
        }
        el.textContent = text;
    }

    function connect() {
        var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(proto + '//' + location.host + '` + ReloadPath + `');

        ws.onopen = function() { delay = 1000; };

        ws.onmessage = function(e) {
            var msg;
            try { msg = JSON.parse(e.data); } catch (err) { return; }
            if (msg.type === 'reload') location.reload();
            else if (msg.type === 'error') overlay(msg.error);
            else if (msg.type === 'clear') overlay('');
        };

        ws.onclose = function() {
            setTimeout(function() {
                delay = Math.min(delay * 2, 30000);
                connect();
            }, delay);
        };
    }

    connect();
})();
</script>
`
