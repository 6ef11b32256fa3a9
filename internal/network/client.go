package network

import (
	"net"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Tempo máximo para uma escrita na conexão completar.
	writeWait = 10 * time.Second

	// Tempo máximo aguardando um pong do cliente.
	pongWait = 60 * time.Second

	// Frequência dos pings. Precisa ser menor que pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Client representa um jogador conectado do ponto de vista do servidor.
// Agrupa a conexão WebSocket e o canal de saída.
type Client struct {
	conn *websocket.Conn
	hub  *Hub

	// Canal bufferizado de mensagens de saída. O buffer evita que o Hub
	// ou o loop de uma sessão bloqueiem em um cliente lento.
	send chan Message
}

// Conn expõe a net.Conn subjacente (endereço remoto para logs, etc.).
func (c *Client) Conn() net.Conn {
	return c.conn.UnderlyingConn()
}

// Send retorna o canal de escrita do cliente. É a ÚNICA forma segura de
// enviar mensagens: nunca escreva direto na conexão fora do writeLoop.
func (c *Client) Send() chan<- Message {
	return c.send
}

func (c *Client) readLoop() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	// Cada pong recebido renova o deadline de leitura, mantendo a conexão viva.
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logf("unexpected close from %s: %v", c.conn.RemoteAddr(), err)
			}
			// Qualquer erro (desconexão normal ou não) encerra o loop.
			break
		}

		c.hub.incoming <- clientMessage{client: c, msg: msg}
	}
}

// writeLoop bombeia mensagens do canal send para a conexão.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// O Hub fechou o canal: cliente foi desregistrado.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				logf("write error to %s: %v", c.conn.RemoteAddr(), err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
