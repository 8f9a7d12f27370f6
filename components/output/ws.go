package output

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/nostalgist134/GqlGIU/components/gqlTypes"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// 代理和workbench都跑在本地，跨origin的握手直接放行
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WsHub 把fuzz结果行实时推给所有连上/ws/results的客户端
// 写不动的慢客户端直接踢掉，不做缓冲排队
type WsHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewWsHub() *WsHub {
	return &WsHub{conns: make(map[*websocket.Conn]struct{})}
}

// Serve 将一个http请求升级为websocket连接并登记进hub
// 连接由hub持有，客户端发来的消息一律丢弃，只用读循环探测断连
func (h *WsHub) Serve(w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.drop(conn)
				return
			}
		}
	}()
	return nil
}

func (h *WsHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

// Broadcast 把一行结果推给所有在线客户端
func (h *WsHub) Broadcast(res *gqlTypes.FuzzResult) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()
	for _, c := range conns {
		if err := c.WriteJSON(res); err != nil {
			h.drop(c)
		}
	}
}

func (h *WsHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// CloseAll 停止推送并断开所有客户端
func (h *WsHub) CloseAll() {
	h.mu.Lock()
	for c := range h.conns {
		c.Close()
		delete(h.conns, c)
	}
	h.mu.Unlock()
}
