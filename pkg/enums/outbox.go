package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateCategory OutboxAggregateType = "category"
	AggregateProduct  OutboxAggregateType = "product"
	AggregateSetting  OutboxAggregateType = "setting"
	AggregateCheckout OutboxAggregateType = "checkout"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateCategory,
	AggregateProduct,
	AggregateSetting,
	AggregateCheckout,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventCategoryUpserted OutboxEventType = "category_upserted"
	EventCategoryDeleted  OutboxEventType = "category_deleted"
	EventProductUpserted  OutboxEventType = "product_upserted"
	EventProductDeleted   OutboxEventType = "product_deleted"
	EventSettingsUpdated  OutboxEventType = "settings_updated"
	EventCheckoutComposed OutboxEventType = "checkout_composed"
)

var validEventTypes = []OutboxEventType{
	EventCategoryUpserted,
	EventCategoryDeleted,
	EventProductUpserted,
	EventProductDeleted,
	EventSettingsUpdated,
	EventCheckoutComposed,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
