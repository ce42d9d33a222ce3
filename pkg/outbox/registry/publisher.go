package registry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	"github.com/tillpoint/tillpoint-backend/pkg/enums"
	"github.com/tillpoint/tillpoint-backend/pkg/outbox"
	"github.com/tillpoint/tillpoint-backend/pkg/outbox/payloads"
)

// EventDescriptor links an event type to its aggregate, the mirror endpoint
// path it is delivered to, and its payload schema.
type EventDescriptor struct {
	EventType      enums.OutboxEventType
	AggregateType  enums.OutboxAggregateType
	Path           string
	PayloadFactory func() interface{}
}

// ResolvedEvent is the result of decoding an outbox row.
type ResolvedEvent struct {
	Descriptor EventDescriptor
	Envelope   outbox.PayloadEnvelope
	Payload    interface{}
}

// EventRegistry maps each supported event type to its descriptor.
type EventRegistry struct {
	entries map[enums.OutboxEventType]EventDescriptor
}

// NonRetryableError signals the dispatcher should stop retrying a row.
type NonRetryableError struct {
	Err error
}

// Error implements error.
func (e NonRetryableError) Error() string {
	if e.Err == nil {
		return "non-retryable error"
	}
	return e.Err.Error()
}

// Unwrap exposes the wrapped error.
func (e NonRetryableError) Unwrap() error {
	return e.Err
}

// Mirror endpoint paths, relative to the configured sync target URL.
const (
	PathOrders    = "/sync/orders"
	PathCustomers = "/sync/customers"
	PathCatalog   = "/sync/catalog"
	PathSettings  = "/sync/settings"
)

// NewEventRegistry builds the registry covering every event the register
// emits.
func NewEventRegistry() *EventRegistry {
	reg := &EventRegistry{entries: make(map[enums.OutboxEventType]EventDescriptor)}

	for _, desc := range []EventDescriptor{
		{
			EventType:      enums.EventOrderCreated,
			AggregateType:  enums.AggregateOrder,
			Path:           PathOrders,
			PayloadFactory: func() interface{} { return &payloads.OrderCreatedEvent{} },
		},
		{
			EventType:      enums.EventOrderCanceled,
			AggregateType:  enums.AggregateOrder,
			Path:           PathOrders,
			PayloadFactory: func() interface{} { return &payloads.OrderCanceledEvent{} },
		},
		{
			EventType:      enums.EventOrderUncanceled,
			AggregateType:  enums.AggregateOrder,
			Path:           PathOrders,
			PayloadFactory: func() interface{} { return &payloads.OrderUncanceledEvent{} },
		},
		{
			EventType:      enums.EventCustomerUpserted,
			AggregateType:  enums.AggregateCustomer,
			Path:           PathCustomers,
			PayloadFactory: func() interface{} { return &payloads.CustomerUpsertedEvent{} },
		},
		{
			EventType:      enums.EventRewardGranted,
			AggregateType:  enums.AggregateCustomer,
			Path:           PathCustomers,
			PayloadFactory: func() interface{} { return &payloads.RewardGrantedEvent{} },
		},
		{
			EventType:      enums.EventRewardRedeemed,
			AggregateType:  enums.AggregateCustomer,
			Path:           PathCustomers,
			PayloadFactory: func() interface{} { return &payloads.RewardRedeemedEvent{} },
		},
		{
			EventType:      enums.EventCatalogChanged,
			AggregateType:  enums.AggregateProduct,
			Path:           PathCatalog,
			PayloadFactory: func() interface{} { return &payloads.CatalogChangedEvent{} },
		},
		{
			EventType:      enums.EventSettingsChanged,
			AggregateType:  enums.AggregateSettings,
			Path:           PathSettings,
			PayloadFactory: func() interface{} { return &payloads.SettingsChangedEvent{} },
		},
	} {
		reg.register(desc)
	}

	return reg
}

func (r *EventRegistry) register(desc EventDescriptor) {
	if desc.PayloadFactory == nil {
		return
	}
	r.entries[desc.EventType] = desc
}

// Resolve validates the row and decodes its typed payload.
func (r *EventRegistry) Resolve(event models.OutboxEvent) (*ResolvedEvent, error) {
	desc, ok := r.entries[event.EventType]
	if !ok {
		return nil, NewNonRetryableError(fmt.Errorf("unsupported event type %s", event.EventType))
	}
	if desc.AggregateType != event.AggregateType {
		return nil, NewNonRetryableError(fmt.Errorf("aggregate mismatch: expected %s got %s", desc.AggregateType, event.AggregateType))
	}
	if event.AggregateID == uuid.Nil {
		return nil, NewNonRetryableError(fmt.Errorf("missing aggregate_id"))
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode envelope: %w", err))
	}

	trimmed := bytes.TrimSpace(envelope.Data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, NewNonRetryableError(fmt.Errorf("payload missing for %s", event.EventType))
	}

	payload := desc.PayloadFactory()
	if payload == nil {
		return nil, NewNonRetryableError(fmt.Errorf("payload factory not configured for %s", event.EventType))
	}
	if err := json.Unmarshal(envelope.Data, payload); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode %s payload: %w", event.EventType, err))
	}

	return &ResolvedEvent{
		Descriptor: desc,
		Envelope:   envelope,
		Payload:    payload,
	}, nil
}

// NewNonRetryableError wraps an error to signal no retries.
func NewNonRetryableError(err error) NonRetryableError {
	return NonRetryableError{Err: err}
}
