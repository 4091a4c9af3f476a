package lifecycle

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"cylinderManagement/models"
	"cylinderManagement/repository"
)

// CustomerInfo carries the free-text customer fields captured by the order
// form. They are stored on the order and copied into any later pickup.
type CustomerInfo struct {
	Name    string
	Phone   string
	Address string
}

// Service applies lifecycle transitions. Each transition validates its
// precondition, writes the order/pickup record first and the cylinder row
// second (the two writes are separate statements; there is no cross-record
// transaction), and refuses to run while another transition for the same
// entity is still in flight.
type Service struct {
	cylinders *repository.CylinderRepository
	orders    *repository.OrderRepository
	pickups   *repository.PickupRepository

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewService(cylinders *repository.CylinderRepository, orders *repository.OrderRepository, pickups *repository.PickupRepository) *Service {
	return &Service{
		cylinders: cylinders,
		orders:    orders,
		pickups:   pickups,
		inFlight:  map[string]struct{}{},
	}
}

// begin marks the keyed entity as having a transition in flight.
// Returns ErrTransitionInFlight when one already is.
func (s *Service) begin(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return ErrTransitionInFlight
	}
	s.inFlight[key] = struct{}{}
	return nil
}

func (s *Service) end(key string) {
	s.mu.Lock()
	delete(s.inFlight, key)
	s.mu.Unlock()
}

func cylinderKey(serial string) string { return "cylinder:" + serial }
func orderKey(id int64) string         { return "order:" + strconv.FormatInt(id, 10) }
func pickupKey(id int64) string        { return "pickup:" + strconv.FormatInt(id, 10) }

// PlaceOrder creates an order against an empty warehouse cylinder and
// advances the cylinder to ordered@Customer.
func (s *Service) PlaceOrder(ctx context.Context, serial string, customer CustomerInfo) (*models.Order, error) {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return nil, &ValidationError{Field: "serial number"}
	}
	if strings.TrimSpace(customer.Name) == "" {
		return nil, &ValidationError{Field: "customer name"}
	}
	if strings.TrimSpace(customer.Phone) == "" {
		return nil, &ValidationError{Field: "customer phone"}
	}
	if strings.TrimSpace(customer.Address) == "" {
		return nil, &ValidationError{Field: "customer address"}
	}

	if err := s.begin(cylinderKey(serial)); err != nil {
		return nil, err
	}
	defer s.end(cylinderKey(serial))

	c, err := s.cylinders.GetBySerial(ctx, serial)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCylinderNotFound
	}
	if !CanPlaceOrder(c) {
		return nil, &PreconditionError{Entity: "cylinder", ID: serial, Got: StateOf(c).String(), Want: StateEmptyWarehouse.String()}
	}

	ord, err := s.orders.Create(ctx, &models.Order{
		CustomerName:    customer.Name,
		CustomerPhone:   customer.Phone,
		CustomerAddress: customer.Address,
		CylinderSerial:  serial,
		Status:          models.OrderStatusOrdered,
	})
	if err != nil {
		return nil, err
	}
	if err := s.cylinders.UpdateState(ctx, serial, StateOrderedCustomer.Status, StateOrderedCustomer.Location); err != nil {
		return ord, &InconsistentStateError{Serial: serial, Event: EventPlaceOrder, Err: err}
	}
	if err := s.cylinders.SetOrderID(ctx, serial, &ord.ID); err != nil {
		return ord, &InconsistentStateError{Serial: serial, Event: EventPlaceOrder, Err: err}
	}
	return ord, nil
}

// MarkFilled advances an Ordered order to Filled and the cylinder's status to
// filled. The cylinder's location is deliberately left untouched here; only
// the delivery transition moves it.
func (s *Service) MarkFilled(ctx context.Context, orderID int64) error {
	if err := s.begin(orderKey(orderID)); err != nil {
		return err
	}
	defer s.end(orderKey(orderID))

	ord, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if ord == nil {
		return ErrOrderNotFound
	}
	if ord.Status != models.OrderStatusOrdered {
		return &PreconditionError{Entity: "order", ID: strconv.FormatInt(orderID, 10), Got: string(ord.Status), Want: string(models.OrderStatusOrdered)}
	}

	if err := s.orders.UpdateStatus(ctx, orderID, models.OrderStatusFilled); err != nil {
		return err
	}
	if err := s.cylinders.UpdateStatus(ctx, ord.CylinderSerial, models.CylinderStatusFilled); err != nil {
		return &InconsistentStateError{Serial: ord.CylinderSerial, Event: EventMarkFilled, Err: err}
	}
	return nil
}

// MarkDelivered advances a Filled order to Delivered and moves the cylinder
// to delivered@Customer.
func (s *Service) MarkDelivered(ctx context.Context, orderID int64) error {
	if err := s.begin(orderKey(orderID)); err != nil {
		return err
	}
	defer s.end(orderKey(orderID))

	ord, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if ord == nil {
		return ErrOrderNotFound
	}
	if ord.Status != models.OrderStatusFilled {
		return &PreconditionError{Entity: "order", ID: strconv.FormatInt(orderID, 10), Got: string(ord.Status), Want: string(models.OrderStatusFilled)}
	}

	if err := s.orders.UpdateStatus(ctx, orderID, models.OrderStatusDelivered); err != nil {
		return err
	}
	if err := s.cylinders.UpdateState(ctx, ord.CylinderSerial, StateDeliveredCustomer.Status, StateDeliveredCustomer.Location); err != nil {
		return &InconsistentStateError{Serial: ord.CylinderSerial, Event: EventMarkDelivered, Err: err}
	}
	return nil
}

// RequestPickup creates a pickup for a delivered cylinder, copying the
// customer fields from its most recent Delivered order, and advances the
// cylinder to assigned_pickup.
func (s *Service) RequestPickup(ctx context.Context, serial string) (*models.Pickup, error) {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return nil, &ValidationError{Field: "serial number"}
	}

	if err := s.begin(cylinderKey(serial)); err != nil {
		return nil, err
	}
	defer s.end(cylinderKey(serial))

	c, err := s.cylinders.GetBySerial(ctx, serial)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCylinderNotFound
	}
	if !CanRequestPickup(c) {
		return nil, &PreconditionError{Entity: "cylinder", ID: serial, Got: StateOf(c).String(), Want: StateDeliveredCustomer.String()}
	}

	ord, err := s.orders.LatestDeliveredBySerial(ctx, serial)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, &NoDeliveryRecordError{Serial: serial}
	}

	p, err := s.pickups.Create(ctx, &models.Pickup{
		CylinderSerial:  serial,
		CustomerName:    ord.CustomerName,
		CustomerPhone:   ord.CustomerPhone,
		CustomerAddress: ord.CustomerAddress,
		PickupStatus:    models.PickupStatusAssigned,
	})
	if err != nil {
		return nil, err
	}
	if err := s.cylinders.UpdateStatus(ctx, serial, models.CylinderStatusAssignedPickup); err != nil {
		return p, &InconsistentStateError{Serial: serial, Event: EventRequestPickup, Err: err}
	}
	return p, nil
}

// MarkPickedUp completes an assigned pickup and returns the cylinder to
// empty@Warehouse, clearing its order link so it is eligible for a new cycle.
func (s *Service) MarkPickedUp(ctx context.Context, pickupID int64) error {
	if err := s.begin(pickupKey(pickupID)); err != nil {
		return err
	}
	defer s.end(pickupKey(pickupID))

	p, err := s.pickups.GetByID(ctx, pickupID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPickupNotFound
	}
	if p.PickupStatus != models.PickupStatusAssigned {
		return &PreconditionError{Entity: "pickup", ID: strconv.FormatInt(pickupID, 10), Got: string(p.PickupStatus), Want: string(models.PickupStatusAssigned)}
	}

	if err := s.pickups.UpdateStatus(ctx, pickupID, models.PickupStatusDone); err != nil {
		return err
	}
	if err := s.cylinders.UpdateState(ctx, p.CylinderSerial, StateEmptyWarehouse.Status, StateEmptyWarehouse.Location); err != nil {
		return &InconsistentStateError{Serial: p.CylinderSerial, Event: EventMarkPickedUp, Err: err}
	}
	if err := s.cylinders.SetOrderID(ctx, p.CylinderSerial, nil); err != nil {
		return &InconsistentStateError{Serial: p.CylinderSerial, Event: EventMarkPickedUp, Err: err}
	}
	return nil
}
