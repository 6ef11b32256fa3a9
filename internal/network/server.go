package network

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// Server é a porta de entrada WebSocket. Gerencia o upgrade das conexões
// e o Hub que roteia os eventos para o EventHandler injetado.
type Server struct {
	hub *Hub
}

var upgrader = websocket.Upgrader{
	// O cliente do jogo roda no navegador em qualquer origem durante o
	// desenvolvimento; a validação de origem fica para o proxy na frente.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewServer cria o servidor com a lógica de jogo injetada via EventHandler.
func NewServer(handler EventHandler) *Server {
	return &Server{
		hub: NewHub(handler),
	}
}

// wsHandler promove a requisição HTTP para WebSocket e registra o cliente.
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Network] upgrade failed: %v", err)
		return
	}

	client := &Client{
		conn: conn,
		hub:  s.hub,
		send: make(chan Message, 256),
	}

	client.hub.register <- client

	go client.writeLoop()
	go client.readLoop()
}

// Listen inicia a goroutine do Hub e serve a rota /ws. Bloqueante.
func (s *Server) Listen(address string) error {
	go s.hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.wsHandler)

	log.Printf("[Network] websocket server listening on ws://%s/ws", address)
	return http.ListenAndServe(address, mux)
}
