package repository

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"fleamarkt/internal/domain/entity"
)

// singleNodeProps extracts the properties of the node bound to key in the
// first record, or nil when the result is empty.
func singleNodeProps(result *neo4j.EagerResult, key string) map[string]interface{} {
	if result == nil || len(result.Records) == 0 {
		return nil
	}
	return recordNodeProps(result.Records[0], key)
}

func recordNodeProps(record *neo4j.Record, key string) map[string]interface{} {
	value, ok := record.Get(key)
	if !ok {
		return nil
	}
	node, ok := value.(neo4j.Node)
	if !ok {
		return nil
	}
	return node.Props
}

func graphUserFromProps(props map[string]interface{}) *entity.GraphUser {
	return &entity.GraphUser{
		Username:       propString(props, "username"),
		Email:          propString(props, "email"),
		FullName:       propString(props, "full_name"),
		HashedPassword: propString(props, "hashed_password"),
		IsActive:       propBool(props, "is_active", true),
		IsAdmin:        propBool(props, "is_admin", false),
	}
}

func graphProductFromProps(props map[string]interface{}) *entity.GraphProduct {
	return &entity.GraphProduct{
		ID:            propString(props, "id"),
		Title:         propString(props, "title"),
		Description:   propString(props, "description"),
		PriceAmount:   propFloat(props, "price_amount"),
		Status:        propString(props, "status"),
		ViewCount:     propInt(props, "view_count"),
		FavoriteCount: propInt(props, "favorite_count"),
		CreatedAt:     propString(props, "created_at"),
	}
}

func propString(props map[string]interface{}, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func propBool(props map[string]interface{}, key string, fallback bool) bool {
	if v, ok := props[key].(bool); ok {
		return v
	}
	return fallback
}

func propFloat(props map[string]interface{}, key string) float64 {
	switch v := props[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func propInt(props map[string]interface{}, key string) int64 {
	switch v := props[key].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}
