package delivery

// DeliveryInProgress is the latest known state of one in-flight shipment.
// Status and Progress are display-only and never validated.
type DeliveryInProgress struct {
	ID        string `json:"id"`
	Ticket    string `json:"ticket"`
	Cliente   string `json:"cliente"`
	Motorista string `json:"motorista"`
	Placa     string `json:"placa"`
	Produto   string `json:"produto"`
	Origem    string `json:"origem"`
	Destino   string `json:"destino"`
	Status    string `json:"status"`
	Progress  int    `json:"progress"`
	UpdatedAt string `json:"updatedAt"`
}

// Known status labels. Senders may use others.
const (
	StatusLoading   = "carregando"
	StatusInTransit = "em_transito"
	StatusUnloading = "descarregando"
	StatusDelivered = "entregue"
)
