package application

import (
	"github.com/sirupsen/logrus"

	"github.com/bharosahq/trust-network/internal/domain/entity"
	repo "github.com/bharosahq/trust-network/internal/domain/repository"
	"github.com/bharosahq/trust-network/pkg/helpers"
)

// SeedKnownIdentities installs the demo records the prototype's walkthrough
// depends on: a merchant whose PAN and hashes the wizard can rediscover, and
// the customer behind the well-known phone number. Records that already
// exist are left alone, so seeding is safe to repeat.
func SeedKnownIdentities(customers repo.CustomerRepository, merchants repo.MerchantRepository, logger *logrus.Logger) error {
	if _, err := merchants.FindByID("S-8821"); err != nil {
		m := &entity.Merchant{
			MerchantID:          "S-8821",
			Reference:           "VERMA8821",
			OwnerName:           "Verma Ji",
			Aadhaar:             "123412341234",
			Phone:               "9812345678",
			PANName:             "Ramesh Verma",
			DOB:                 "1974-03-12",
			PANNumber:           "ABCDE1234F",
			Income:              entity.Income2To6Lakh,
			Location:            "Karol Bagh, Delhi",
			FingerprintVerified: true,
			FaceVerified:        true,
			FingerprintHash:     "fp-v88",
			FaceHash:            "face-v88",
			TrustScore:          entity.InitialTrustScore,
		}
		if err := merchants.Add(m); err != nil {
			return err
		}
		helpers.LogInfo(logger, "seeded demo merchant", logrus.Fields{"merchant_id": m.MerchantID})
	}

	if _, err := customers.FindByID("BH-CUST-PROTOTYPE"); err != nil {
		c := &entity.Customer{
			CustomerID:          "BH-CUST-PROTOTYPE",
			Name:                "Conference Carl",
			Phone:               "9876543210",
			FingerprintVerified: true,
			FaceVerified:        true,
			FingerprintHash:     "fp-8888",
			FaceHash:            "face-8888",
		}
		if err := customers.Add(c); err != nil {
			return err
		}
		helpers.LogInfo(logger, "seeded demo customer", logrus.Fields{"customer_id": c.CustomerID})
	}

	return nil
}
