package routes

import (
	"encoding/json"

	"github.com/vaibhav5104/evgati-sub000/models"
	"github.com/vaibhav5104/evgati-sub000/storage"
	"github.com/vaibhav5104/evgati-sub000/utils"

	"github.com/kataras/iris/v12"
)

type CreateStationInput struct {
	Name           string   `json:"name" validate:"required,max=256"`
	Description    string   `json:"description"`
	AddressLine1   string   `json:"addressLine1" validate:"required,max=512"`
	AddressLine2   string   `json:"addressLine2"`
	City           string   `json:"city" validate:"required,max=256"`
	State          string   `json:"state"`
	Zip            string   `json:"zip"`
	Country        string   `json:"country" validate:"required,max=256"`
	Lat            float32  `json:"lat" validate:"required"`
	Lng            float32  `json:"lng" validate:"required"`
	TotalPorts     int      `json:"totalPorts" validate:"required,gte=1,lte=64"`
	PowerKW        float32  `json:"powerKW" validate:"gte=0"`
	PricePerKWh    float32  `json:"pricePerKWh" validate:"gte=0"`
	Currency       string   `json:"currency"`
	ConnectorTypes []string `json:"connectorTypes"`
	Images         []string `json:"images"`
	IsActive       *bool    `json:"isActive"`
}

// CreateStation registers a new station for the authenticated owner. The
// station starts in pending status and cannot serve accepted bookings until
// an admin approves it.
func CreateStation(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CreateStationInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	connectors := input.ConnectorTypes
	if connectors == nil {
		connectors = []string{}
	}
	connectorsJSON, _ := json.Marshal(connectors)

	images := input.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, _ := json.Marshal(images)

	station := models.Station{
		OwnerID:        userID,
		Name:           input.Name,
		Description:    input.Description,
		AddressLine1:   input.AddressLine1,
		AddressLine2:   input.AddressLine2,
		City:           input.City,
		State:          input.State,
		Zip:            input.Zip,
		Country:        input.Country,
		Lat:            input.Lat,
		Lng:            input.Lng,
		TotalPorts:     input.TotalPorts,
		PowerKW:        input.PowerKW,
		PricePerKWh:    input.PricePerKWh,
		Currency:       input.Currency,
		ConnectorTypes: string(connectorsJSON),
		Images:         string(imagesJSON),
		IsActive:       input.IsActive,
		Status:         models.StationPending,
	}

	result := storage.DB.Create(&station)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(station)
}

func GetStation(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var station models.Station
	if err := storage.DB.Preload("Owner").First(&station, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(station)
}

// GetOwnerStations lists the authenticated owner's stations.
func GetOwnerStations(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var stations []models.Station
	result := storage.DB.Where("owner_id = ?", userID).Order("created_at DESC").Find(&stations)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(stations)
}

type UpdateStationInput struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	PowerKW        *float32 `json:"powerKW"`
	PricePerKWh    *float32 `json:"pricePerKWh"`
	ConnectorTypes []string `json:"connectorTypes"`
	Images         []string `json:"images"`
	IsActive       *bool    `json:"isActive"`
}

// UpdateStation edits informational fields of an owned station. TotalPorts is
// deliberately immutable here: reservations reference port numbers.
func UpdateStation(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id := ctx.Params().Get("id")

	var station models.Station
	if err := storage.DB.First(&station, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if station.OwnerID != userID {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "forbidden", "message": "not the station owner"})
		return
	}

	var input UpdateStationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Name != nil {
		station.Name = *input.Name
	}
	if input.Description != nil {
		station.Description = *input.Description
	}
	if input.PowerKW != nil {
		station.PowerKW = *input.PowerKW
	}
	if input.PricePerKWh != nil {
		station.PricePerKWh = *input.PricePerKWh
	}
	if input.ConnectorTypes != nil {
		connectorsJSON, _ := json.Marshal(input.ConnectorTypes)
		station.ConnectorTypes = string(connectorsJSON)
	}
	if input.Images != nil {
		imagesJSON, _ := json.Marshal(input.Images)
		station.Images = string(imagesJSON)
	}
	if input.IsActive != nil {
		station.IsActive = input.IsActive
	}

	if err := storage.DB.Save(&station).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(station)
}

// DeleteStation soft-deletes an owned station. Reservations keep referencing
// the row through its soft-delete lifecycle.
func DeleteStation(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id := ctx.Params().Get("id")

	var station models.Station
	if err := storage.DB.First(&station, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if station.OwnerID != userID {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "forbidden", "message": "not the station owner"})
		return
	}

	if err := storage.DB.Delete(&station).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"deleted": true})
}
