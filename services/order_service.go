package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/artisanbakery/bakery-api/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrEmptyOrder         = errors.New("order must have at least one item")
	ErrMissingCustomer    = errors.New("customer name is required")
	ErrInvalidItem        = errors.New("invalid order item")
	ErrInvalidAmount      = errors.New("amount must not be negative")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is not available")
	ErrOrderNotFound      = errors.New("order not found")
)

// orderViews are the views that show order data and must be refreshed after an order write
var orderViews = []string{PathOrders, PathDashboard, PathFinancial}

// OrderItemInput is one requested line. Either ProductID, or ProductName and UnitPrice for an
// item outside the catalog, must be given.
type OrderItemInput struct {
	ProductID   *uint            `json:"product_id"`
	ProductName string           `json:"product_name"`
	Quantity    int              `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// CreateOrderInput carries everything needed to register an order
type CreateOrderInput struct {
	CustomerName  string
	CustomerPhone string
	Status        string
	Origin        string
	PaymentMethod string
	Notes         string
	DeliveryFee   decimal.Decimal
	Items         []OrderItemInput
	// UserID is the staff member registering the order, nil for storefront orders
	UserID *uint
	// OnlyActiveProducts rejects catalog items hidden from the storefront
	OnlyActiveProducts bool
}

// CreateOrder validates the input and writes the order, its items and its first history
// event in one transaction. Orders created in a paid status also get their income entry
// in the ledger inside the same transaction.
func CreateOrder(db *gorm.DB, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	customer := strings.TrimSpace(in.CustomerName)
	if customer == "" {
		return nil, ErrMissingCustomer
	}
	for i, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %d quantity must be greater than zero", ErrInvalidItem, i+1)
		}
		if item.ProductID == nil && (strings.TrimSpace(item.ProductName) == "" || item.UnitPrice == nil) {
			return nil, fmt.Errorf("%w: item %d needs a product_id or a product_name and unit_price", ErrInvalidItem, i+1)
		}
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: item %d unit price", ErrInvalidAmount, i+1)
		}
	}
	if in.DeliveryFee.IsNegative() {
		return nil, fmt.Errorf("%w: delivery fee", ErrInvalidAmount)
	}

	status, err := models.ParseOrderStatus(in.Status)
	if err != nil {
		return nil, err
	}
	origin, err := models.ParseOrderOrigin(in.Origin)
	if err != nil {
		return nil, err
	}
	payment, err := models.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}

	var order models.Order
	err = db.Transaction(func(tx *gorm.DB) error {
		items, err := resolveItems(tx, in.Items, in.OnlyActiveProducts)
		if err != nil {
			return err
		}

		order = models.Order{
			CustomerName:  customer,
			CustomerPhone: strings.TrimSpace(in.CustomerPhone),
			Status:        status,
			Origin:        origin,
			PaymentMethod: payment,
			DeliveryFee:   in.DeliveryFee,
			Notes:         strings.TrimSpace(in.Notes),
			Items:         items,
		}
		order.Subtotal = order.ItemsSubtotal()
		order.Total = order.Subtotal.Add(order.DeliveryFee)

		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		event := models.OrderEvent{
			OrderID: order.ID,
			Status:  order.Status,
			UserID:  in.UserID,
			Note:    "pedido criado",
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to record order event: %w", err)
		}

		if order.Status.IsPaid() {
			entry := incomeEntryFor(order, time.Now())
			if err := tx.Create(&entry).Error; err != nil {
				return fmt.Errorf("failed to post order income: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("order created",
		zap.Uint("order_id", order.ID),
		zap.String("status", string(order.Status)),
		zap.String("origin", string(order.Origin)),
		zap.String("total", order.Total.StringFixed(2)))
	Revalidate(orderViews...)
	return &order, nil
}

// UpdateOrderStatus moves an order to a new status and records the change. An order entering
// a paid status gets its income entry unless one was already posted for it.
func UpdateOrderStatus(db *gorm.DB, orderID uint, value string, userID *uint, note string) (*models.Order, error) {
	if strings.TrimSpace(value) == "" {
		return nil, fmt.Errorf("%w: order status is required", models.ErrUnknownValue)
	}
	status, err := models.ParseOrderStatus(value)
	if err != nil {
		return nil, err
	}

	var order models.Order
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to load order: %w", err)
		}
		if order.Status == status {
			return nil
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", status).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		order.Status = status

		event := models.OrderEvent{
			OrderID: order.ID,
			Status:  status,
			UserID:  userID,
			Note:    strings.TrimSpace(note),
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to record order event: %w", err)
		}

		if !status.IsPaid() {
			return nil
		}
		var posted int64
		if err := tx.Model(&models.Transaction{}).
			Where("order_id = ? AND type = ?", order.ID, models.TransactionIncome).
			Count(&posted).Error; err != nil {
			return fmt.Errorf("failed to check order income: %w", err)
		}
		if posted > 0 {
			return nil
		}
		entry := incomeEntryFor(order, time.Now())
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to post order income: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	Revalidate(orderViews...)
	return &order, nil
}

// DeleteOrder soft-deletes an order. Ledger entries posted for it are kept.
func DeleteOrder(db *gorm.DB, orderID uint) error {
	result := db.Delete(&models.Order{}, orderID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	Revalidate(orderViews...)
	return nil
}

// resolveItems turns the requested lines into order items, copying name and price from the
// catalog for product lines.
func resolveItems(tx *gorm.DB, inputs []OrderItemInput, onlyActive bool) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		item := models.OrderItem{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
		}

		if in.ProductID != nil {
			var product models.Product
			if err := tx.First(&product, *in.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, *in.ProductID)
				}
				return nil, fmt.Errorf("failed to load product %d: %w", *in.ProductID, err)
			}
			if onlyActive && !product.Active {
				return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, product.Name)
			}
			item.ProductName = product.Name
			item.UnitPrice = product.Price
		} else {
			item.ProductName = strings.TrimSpace(in.ProductName)
			item.UnitPrice = *in.UnitPrice
		}

		item.LineTotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		items = append(items, item)
	}
	return items, nil
}

func incomeEntryFor(order models.Order, now time.Time) models.Transaction {
	orderID := order.ID
	return models.Transaction{
		Description: fmt.Sprintf("Pedido #%d - %s", order.ID, order.CustomerName),
		Type:        models.TransactionIncome,
		Amount:      order.Total,
		Category:    models.SalesCategory,
		Date:        now,
		OrderID:     &orderID,
	}
}
