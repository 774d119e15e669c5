package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Address struct {
	Id             primitive.ObjectID `json:"id" bson:"_id"`
	UserId         primitive.ObjectID `json:"userId" bson:"userId"`
	RecipientName  string             `json:"recipientName" bson:"recipientName" validate:"required"`
	StreetAddress  string             `json:"streetAddress" bson:"streetAddress" validate:"required"`
	City           string             `json:"city" bson:"city" validate:"required"`
	State          string             `json:"state" bson:"state" validate:"required"`
	ZipCode        string             `json:"zipCode" bson:"zipCode" validate:"required"`
	Phone          string             `json:"phone,omitempty" bson:"phone,omitempty"`
	IsUserSelected bool               `json:"isUserSelected" bson:"isUserSelected"`
}

// Snapshot copies the address into the immutable form stored on an order.
func (a Address) Snapshot() ShippingAddress {
	return ShippingAddress{
		RecipientName: a.RecipientName,
		StreetAddress: a.StreetAddress,
		City:          a.City,
		State:         a.State,
		ZipCode:       a.ZipCode,
		Phone:         a.Phone,
	}
}
