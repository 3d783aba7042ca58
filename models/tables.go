package models

// Tables lists every model handled by AutoMigrate
var Tables = []interface{}{
	&User{},
	&Product{},
	&Order{},
	&OrderItem{},
	&OrderEvent{},
	&Ingredient{},
	&Transaction{},
	&StoreSettings{},
}
