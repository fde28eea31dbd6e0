package ecommerceserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-ecommerce-api/internal/platform/seed"
)

// Seeder loads the demo data set.
type Seeder interface {
	Run(ctx context.Context) (seed.Result, error)
}

type SeedAPI struct {
	seeder Seeder
}

func NewSeedAPI(seeder Seeder) *SeedAPI {
	return &SeedAPI{seeder: seeder}
}

// Get /seeder
func (api *SeedAPI) Seed(c *gin.Context) {
	result, err := api.seeder.Run(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Envelope{Message: "Seed executed successfully", Data: result})
}
