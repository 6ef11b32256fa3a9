package network

// EventHandler é a interface que conecta a camada de rede à lógica do jogo.
// O gateway de sessões (fora deste pacote) implementa esta interface.
// Todos os callbacks rodam na goroutine do Hub, então o handler pode
// manter estado próprio sem locks desde que só o toque a partir daqui.
type EventHandler interface {
	// OnConnect é chamado quando um novo cliente completa o upgrade.
	OnConnect(c *Client)

	// OnDisconnect é chamado quando a conexão de um cliente morre.
	OnDisconnect(c *Client)

	// OnMessage é chamado para cada envelope recebido de um cliente.
	OnMessage(c *Client, msg Message)
}
