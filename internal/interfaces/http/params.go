package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kontrol/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// paramID lee :id como entero positivo.
func paramID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryTime acepta YYYY-MM-DD (medianoche en loc) o RFC3339. Vacío = nil.
func queryTime(c *fiber.Ctx, key string, loc *time.Location) (*time.Time, bool) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return nil, true
	}
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return &t, true
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// movementFilter arma el filtro de listMovements desde kind, product_id, from y to.
func movementFilter(c *fiber.Ctx, loc *time.Location) (entity.MovementFilter, string) {
	var f entity.MovementFilter
	if k := c.Query("kind"); k != "" {
		kind := entity.MovementKind(strings.ToLower(k))
		f.Kind = &kind
	}
	if p := c.Query("product_id"); p != "" {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return f, "product_id inválido"
		}
		f.ProductID = &id
	}
	var ok bool
	if f.From, ok = queryTime(c, "from", loc); !ok {
		return f, "from inválido (YYYY-MM-DD o RFC3339)"
	}
	if f.To, ok = queryTime(c, "to", loc); !ok {
		return f, "to inválido (YYYY-MM-DD o RFC3339)"
	}
	return f, ""
}
