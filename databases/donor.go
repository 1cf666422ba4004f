package databases

// go generate: mockery --name DonorDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/finblood/finblood2/models"
)

const donorCollectionName = "pendonor"

// DonorDatabase contains the methods to use with the donor database
type DonorDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Donor, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type donorDatabase struct {
	db DatabaseHelper
}

// NewDonorDatabase initializes a new instance of donor database with the provided db connection
func NewDonorDatabase(db DatabaseHelper) DonorDatabase {
	return &donorDatabase{
		db: db,
	}
}

func (d *donorDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Donor, error) {
	var donors []models.Donor
	cur, err := d.db.Collection(donorCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&donors)
	if err != nil {
		return nil, err
	}
	return donors, nil
}

func (d *donorDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return d.db.Collection(donorCollectionName).CountDocuments(ctx, filter, opts...)
}
