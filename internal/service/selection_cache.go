package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"prism-api/internal/domain"
)

// SelectionCache memoiza las listas de items elegidas para un banco dado.
// La clave incluye un fingerprint del banco: cualquier cambio en items
// activos invalida la entrada sin necesidad de flush manual.
type SelectionCache interface {
	Get(ctx context.Context, key string) ([]string, bool)
	Set(ctx context.Context, key string, itemIDs []string)
}

const defaultSelectionTTL = 10 * time.Minute

type redisSelectionCache struct {
	client redisKV
	ttl    time.Duration
}

func NewRedisSelectionCache(client *redis.Client, ttl time.Duration) SelectionCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultSelectionTTL
	}
	return &redisSelectionCache{client: client, ttl: ttl}
}

func (c *redisSelectionCache) Get(ctx context.Context, key string) ([]string, bool) {
	raw, err := c.client.Get(ctx, "select:"+key).Result()
	if err != nil {
		return nil, false
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, false
	}
	return ids, true
}

func (c *redisSelectionCache) Set(ctx context.Context, key string, itemIDs []string) {
	payload, err := json.Marshal(itemIDs)
	if err != nil {
		return
	}
	// Best effort: si redis no responde, la selección se recalcula.
	_ = c.client.Set(ctx, "select:"+key, payload, c.ttl).Err()
}

// SelectionCacheKey deriva una clave estable a partir del tier, los
// frameworks pedidos y el contenido del banco activo.
func SelectionCacheKey(tier string, frameworks []string, bankFingerprint string) string {
	sorted := append([]string(nil), frameworks...)
	sort.Strings(sorted)
	return tier + ":" + strings.Join(sorted, ",") + ":" + bankFingerprint
}

// BankFingerprint resume el banco activo: id, dimensión, orden, peso,
// reverse y tags de cada item. Cualquier cambio que pueda alterar la
// selección (o el item servido) cambia el fingerprint, incluso sin altas
// ni bajas de ids.
func BankFingerprint(bank []domain.Item) string {
	lines := make([]string, 0, len(bank))
	for _, it := range bank {
		lines = append(lines, fmt.Sprintf("%s|%s|%d|%g|%t|%s",
			it.ID,
			it.Dimension,
			it.OrderIndex,
			it.EffectiveWeight(),
			it.ReverseScored,
			strings.Join(it.Frameworks, ","),
		))
	}
	sort.Strings(lines)
	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:8])
}
