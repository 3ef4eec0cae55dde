package dashboard

// Stats holds the dashboard counters. The zero value means "no data yet".
type Stats struct {
	TotalColetas         int `json:"totalColetas"`
	ColetasPendentes     int `json:"coletasPendentes"`
	PesagensHoje         int `json:"pesagensHoje"`
	EntregasEmAndamento  int `json:"entregasEmAndamento"`
	MotoristasAtivos     int `json:"motoristasAtivos"`
	CaminhoesDisponiveis int `json:"caminhoesDisponiveis"`
}

// ProximaColeta is an upcoming collection.
type ProximaColeta struct {
	ID           string `json:"id"`
	Cliente      string `json:"cliente"`
	Produto      string `json:"produto"`
	Local        string `json:"local"`
	DataPrevista string `json:"dataPrevista"`
}

// ProdutoTransportado ranks products by transported volume.
type ProdutoTransportado struct {
	Produto    string  `json:"produto"`
	Quantidade float64 `json:"quantidade"`
	Unidade    string  `json:"unidade"`
}

// ClienteAtendido ranks clients by number of collections.
type ClienteAtendido struct {
	Cliente      string `json:"cliente"`
	TotalColetas int    `json:"totalColetas"`
}

// AtividadeOperacional is one line of the operational activity panel.
type AtividadeOperacional struct {
	ID        string `json:"id"`
	Descricao string `json:"descricao"`
	Tipo      string `json:"tipo"`
	Horario   string `json:"horario"`
}

// Summary groups every dashboard read. Slices are never nil.
type Summary struct {
	Stats                 Stats                  `json:"stats"`
	ProximasColetas       []ProximaColeta        `json:"proximasColetas"`
	ProdutosTransportados []ProdutoTransportado  `json:"produtosTransportados"`
	ClientesAtendidos     []ClienteAtendido      `json:"clientesAtendidos"`
	Atividades            []AtividadeOperacional `json:"atividades"`
	UpdatedAt             string                 `json:"updatedAt,omitempty"`
}

// EmptySummary returns the "no data yet" summary.
func EmptySummary() Summary {
	return Summary{
		ProximasColetas:       []ProximaColeta{},
		ProdutosTransportados: []ProdutoTransportado{},
		ClientesAtendidos:     []ClienteAtendido{},
		Atividades:            []AtividadeOperacional{},
	}
}

// Route paths served upstream.
const (
	PathStats                 = "/api/dashboard/stats"
	PathProximasColetas       = "/api/coletas/proximas"
	PathProdutosTransportados = "/api/produtos/mais-transportados"
	PathClientesAtendidos     = "/api/clientes/mais-atendidos"
	PathAtividades            = "/api/atividades/operacionais"
)
