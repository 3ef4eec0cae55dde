package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterStubRoutes serves the dashboard reads with zeroed or empty bodies,
// standing in for the upstream in local deployments.
func RegisterStubRoutes(r chi.Router) {
	empty := EmptySummary()
	r.Get(PathStats, stub(empty.Stats))
	r.Get(PathProximasColetas, stub(empty.ProximasColetas))
	r.Get(PathProdutosTransportados, stub(empty.ProdutosTransportados))
	r.Get(PathClientesAtendidos, stub(empty.ClientesAtendidos))
	r.Get(PathAtividades, stub(empty.Atividades))
}

func stub(body any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(body)
	}
}
