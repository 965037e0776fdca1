package shared

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"reflect"
	"slices"
	"strings"

	"innkeep/shared/cache"
	"innkeep/shared/constant"
	"innkeep/shared/dto"
	"innkeep/shared/timezone"

	"github.com/rs/zerolog/log"
)

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the non-zero db-tagged fields of a struct into an update map,
// stamped with modification metadata.
func TransformFields(data any, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" || fieldName == "-" {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	return Stamp(updatedFields, username)
}

// Stamp sets modified_at and modified_by on an update map.
func Stamp(fields map[string]any, username string) map[string]any {
	fields[constant.FieldModifiedAt] = timezone.Now()
	fields[constant.FieldModifiedBy] = username

	return fields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// AppendNote adds line to notes on its own line and never drops what was already there.
func AppendNote(notes *string, line string) *string {
	if line == "" {
		return notes
	}

	if notes == nil || *notes == "" {
		return &line
	}

	joined := *notes + "\n" + line

	return &joined
}

func BuildCacheKey(prefix string, parts ...string) string {
	if len(parts) == 0 {
		return prefix
	}

	return prefix + ":" + strings.Join(parts, ":")
}

// BuildCacheKeyWithQuery derives a stable key for a list query from its paging and filters.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	hash := fnv.New64a()
	_, _ = fmt.Fprintf(hash, "%+v|%s|%v", params, where, sortedArgs(args))

	return BuildCacheKey(prefix, fmt.Sprintf("%x", hash.Sum64()))
}

// InvalidateCaches drops every key under prefix. Failures are logged only.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}

func sortedArgs(args map[string]any) []string {
	keys := make([]string, 0, len(args))
	for key, value := range args {
		keys = append(keys, fmt.Sprintf("%s=%v", key, value))
	}

	slices.Sort(keys)

	return keys
}
