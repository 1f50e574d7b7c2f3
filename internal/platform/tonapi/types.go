package tonapi

// AccountInfo is the subset of /v2/accounts/{id} the backend reads.
type AccountInfo struct {
	Address string `json:"address"`
	Balance int64  `json:"balance"`
	Status  string `json:"status"`
}

// TransactionsResponse wraps /v2/blockchain/accounts/{id}/transactions.
type TransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

// Transaction carries the fields needed for payment matching. TonAPI decodes
// plain-text transfer comments into in_msg.decoded_body.text.
type Transaction struct {
	Hash    string   `json:"hash"`
	Success bool     `json:"success"`
	Utime   int64    `json:"utime"`
	InMsg   *Message `json:"in_msg"`
}

type Message struct {
	// Value is the transferred amount in nanoTON.
	Value         int64        `json:"value"`
	Source        *AccountRef  `json:"source"`
	Destination   *AccountRef  `json:"destination"`
	DecodedOpName string       `json:"decoded_op_name"`
	DecodedBody   *DecodedBody `json:"decoded_body"`
}

type AccountRef struct {
	Address string `json:"address"`
}

type DecodedBody struct {
	Text string `json:"text"`
}

// Comment returns the decoded transfer comment, if any.
func (m *Message) Comment() string {
	if m == nil || m.DecodedBody == nil {
		return ""
	}
	return m.DecodedBody.Text
}
