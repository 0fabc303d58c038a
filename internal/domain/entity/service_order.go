package entity

// OrderItemContext es el contexto resuelto de un ítem de orden de servicio:
// qué repuesto y en qué ubicación se trabaja, y a qué orden/vehículo/cliente
// pertenece. El motor de stock no es dueño de las órdenes; recibe este
// contexto de un resolver externo.
type OrderItemContext struct {
	OrgID              string
	ServiceOrderItemID string
	ServiceOrderID     string
	VehicleID          string
	ClientID           string
	PartID             string
	Location           string
}
