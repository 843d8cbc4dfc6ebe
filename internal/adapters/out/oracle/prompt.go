package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"laundry/internal/core/domain/model/order"
)

type promptItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"qty"`
	Unit     string  `json:"unit"`
}

// buildPrompt renders the estimation request together with the price list.
func buildPrompt(items []order.Item, isExpress bool) (string, error) {
	list := make([]promptItem, 0, len(items))
	for _, item := range items {
		list = append(list, promptItem{Name: item.Name(), Quantity: item.Quantity(), Unit: item.Unit()})
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return "", err
	}

	express := "Tidak"
	if isExpress {
		express = "Ya"
	}

	var b strings.Builder
	b.WriteString("Tugas: Estimasi waktu dan harga untuk order laundry.\n")
	fmt.Fprintf(&b, "Items: %s\n", raw)
	fmt.Fprintf(&b, "Express: %s\n\n", express)
	b.WriteString("Berikan output dalam format JSON:\n")
	b.WriteString(`{"estimated_time_minutes": number, "total_price": number, "confidence_score": number, "explanation": "string"}`)
	b.WriteString("\n\nGunakan logika:\n")
	b.WriteString("- Kiloan: 10rb/kg. 1-2 hari.\n")
	b.WriteString("- Cuci Sepatu: 30rb/pasang. 2-3 hari.\n")
	b.WriteString("- Express: Harga 2x lipat, waktu 1/2.\n")
	return b.String(), nil
}
