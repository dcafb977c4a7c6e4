// file: internals/features/billing/subscriptions/service/midtrans.go
package service

import (
	"fmt"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"

	"tutorin_backend/internals/features/billing/subscriptions/model"
)

var SnapClient snap.Client
var CoreClient coreapi.Client

// InitMidtrans menginisialisasi Snap + Core API client dengan server key.
func InitMidtrans(serverKey string) {
	SnapClient.New(serverKey, midtrans.Sandbox)
	CoreClient.New(serverKey, midtrans.Sandbox)
}

// GenerateSubscriptionSnapToken membuat token Snap untuk subscription.
// REGULAR/LONG_TERM bayar upfront (rate * minimum hours). FLEXIBLE tidak
// punya tagihan upfront — yang dibuat adalah charge verifikasi nominal
// dengan save_card supaya kartu tersimpan untuk penagihan per sesi.
func GenerateSubscriptionSnapToken(sub *model.StudentSubscriptionModel, plan model.Plan, name, email string) (string, error) {
	grossAmt := int64(plan.UpfrontCharge())
	saveCard := false
	if !plan.HasUpfrontCharge() {
		grossAmt = 1 // charge verifikasi, di-void setelah kartu tersimpan
		saveCard = true
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  sub.SubscriptionOrderID,
			GrossAmt: grossAmt,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure:   true,
			SaveCard: saveCard,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: name,
			Email: email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    sub.SubscriptionTier,
				Name:  "Langganan " + sub.SubscriptionTier,
				Price: grossAmt,
				Qty:   1,
			},
		},
	}

	resp, err := SnapClient.CreateTransaction(req)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// CheckTransactionStatus melihat status order di Midtrans (dipakai confirm
// manual, selain jalur webhook).
func CheckTransactionStatus(orderID string) (*coreapi.TransactionStatusResponse, error) {
	resp, err := CoreClient.CheckTransaction(orderID)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("midtrans tidak mengembalikan status untuk order %s", orderID)
	}
	return resp, nil
}

// IsPaidStatus: status transaksi midtrans yang dihitung "pembayaran sukses".
func IsPaidStatus(transactionStatus string) bool {
	switch transactionStatus {
	case "capture", "settlement":
		return true
	}
	return false
}
