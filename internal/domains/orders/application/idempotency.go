package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/ports"
)

type normalizedPlaceOrder struct {
	UserID string           `json:"userId"`
	Lines  []normalizedLine `json:"lines"`
}

type normalizedLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// FingerprintPlaceOrder hashes the owner and the coalesced, sorted lines.
// The key itself is excluded; ports.ScopedIdempotencyKey ties it to the caller.
func FingerprintPlaceOrder(cmd ports.PlaceOrderCommand) (string, error) {
	lines := domain.CoalesceLines(cmd.Lines)
	normalized := normalizedPlaceOrder{
		UserID: cmd.UserID.String(),
		Lines:  make([]normalizedLine, 0, len(lines)),
	}
	for _, l := range lines {
		normalized.Lines = append(normalized.Lines, normalizedLine{ProductID: l.ProductID.String(), Quantity: l.Quantity})
	}
	sort.Slice(normalized.Lines, func(i, j int) bool {
		return normalized.Lines[i].ProductID < normalized.Lines[j].ProductID
	})
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
