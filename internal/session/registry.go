package session

import "log"

// Registry é a fonte única de verdade das sessões ativas. É um ator:
// o mapa só é tocado pela goroutine de Run, e toda operação chega por
// mensagem tipada com canal de resposta. Isso serializa o acesso vindo
// do hub, do matchmaker e das goroutines de sessão sem nenhum lock.
type Registry struct {
	sessions  map[string]*Session
	requestCh chan any

	// lazyCreate reproduz o comportamento original: ação sobre um id
	// desconhecido fabrica uma sessão default em vez de ser rejeitada.
	// Desligado, o Dispatch descarta a ação (modo estrito).
	lazyCreate bool
}

// NewRegistry cria o registro. O chamador deve iniciar `go r.Run()`.
func NewRegistry(lazyCreate bool) *Registry {
	return &Registry{
		sessions:   make(map[string]*Session),
		requestCh:  make(chan any),
		lazyCreate: lazyCreate,
	}
}

// --- Mensagens do ator ---

type createRequest struct {
	session *Session
	reply   chan string
}

type getRequest struct {
	id    string
	reply chan *Session
}

type getOrCreateRequest struct {
	id     string
	create func(id string) *Session
	reply  chan *Session
}

type removeRequest struct {
	id    string
	reply chan *Session
}

type findByConnRequest struct {
	conn  ClientConn
	reply chan *Session
}

type lenRequest struct {
	reply chan int
}

// Run é o loop do ator.
func (r *Registry) Run() {
	log.Println("[Registry] actor started")
	for msg := range r.requestCh {
		switch req := msg.(type) {
		case createRequest:
			r.store(req.session)
			req.reply <- req.session.ID

		case getRequest:
			req.reply <- r.sessions[req.id]

		case getOrCreateRequest:
			s, ok := r.sessions[req.id]
			if !ok && req.create != nil {
				s = req.create(req.id)
				r.store(s)
			}
			req.reply <- s

		case removeRequest:
			s := r.sessions[req.id]
			delete(r.sessions, req.id)
			req.reply <- s

		case findByConnRequest:
			req.reply <- r.findByConn(req.conn)

		case lenRequest:
			req.reply <- len(r.sessions)
		}
	}
}

// store guarda a sessão e inicia sua goroutine. Guardado implica rodando.
func (r *Registry) store(s *Session) {
	r.sessions[s.ID] = s
	go s.Run()
}

func (r *Registry) findByConn(c ClientConn) *Session {
	for _, s := range r.sessions {
		if _, ok := s.SideOf(c); ok {
			return s
		}
	}
	return nil
}

// --- API pública do ator ---

// Create registra a sessão (e inicia sua goroutine), devolvendo o id.
func (r *Registry) Create(s *Session) string {
	reply := make(chan string)
	r.requestCh <- createRequest{session: s, reply: reply}
	return <-reply
}

// Get retorna a sessão com o id dado, ou nil.
func (r *Registry) Get(id string) *Session {
	reply := make(chan *Session)
	r.requestCh <- getRequest{id: id, reply: reply}
	return <-reply
}

// GetOrCreate retorna a sessão existente ou, atomicamente, cria e
// registra uma nova via factory. Factory nil degrada para Get.
func (r *Registry) GetOrCreate(id string, create func(id string) *Session) *Session {
	reply := make(chan *Session)
	r.requestCh <- getOrCreateRequest{id: id, create: create, reply: reply}
	return <-reply
}

// Remove tira a sessão do registro e a devolve; nil se já ausente.
// É o get-and-delete atômico de que o teardown idempotente precisa.
func (r *Registry) Remove(id string) *Session {
	reply := make(chan *Session)
	r.requestCh <- removeRequest{id: id, reply: reply}
	return <-reply
}

// FindByConn localiza a sessão que contém a conexão dada, ou nil.
func (r *Registry) FindByConn(c ClientConn) *Session {
	reply := make(chan *Session)
	r.requestCh <- findByConnRequest{conn: c, reply: reply}
	return <-reply
}

// Len retorna o número de sessões ativas.
func (r *Registry) Len() int {
	reply := make(chan int)
	r.requestCh <- lenRequest{reply: reply}
	return <-reply
}

// LazyCreate informa a política para ids desconhecidos.
func (r *Registry) LazyCreate() bool {
	return r.lazyCreate
}
