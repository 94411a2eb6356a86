package public

import "github.com/ardanlabs/utxo/foundation/blockchain/database"

// submitTransfer is what a client sends to move value between addresses.
type submitTransfer struct {
	Sender    string  `json:"sender" validate:"required"`
	Recipient string  `json:"recipient" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Fee       float64 `json:"fee" validate:"gte=0"`
}

// balance is the response form for a balance query.
type balance struct {
	Address string  `json:"address"`
	Balance float64 `json:"balance"`
}

// submitResult is the response form for a successful transfer submission.
type submitResult struct {
	Status string      `json:"status"`
	Tx     database.Tx `json:"tx"`
}
