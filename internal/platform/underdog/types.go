package underdog

// NFTPage is one page of GET /nfts. With limit=1, TotalPages equals the number of NFTs
// in the project. TotalPages is nil when the response omits it.
type NFTPage struct {
	Results      []NFTDetails `json:"results"`
	Page         int          `json:"page"`
	Limit        int          `json:"limit"`
	TotalPages   *int         `json:"totalPages"`
	TotalResults int          `json:"totalResults"`
}

// NFTMetadata is the body of POST /nfts.
type NFTMetadata struct {
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Symbol          string            `json:"symbol"`
	Image           string            `json:"image"`
	Attributes      map[string]string `json:"attributes"`
	ReceiverAddress string            `json:"receiverAddress,omitempty"`
}

// MintResult is the response of POST /nfts. Older API versions report the NFT id as "id".
type MintResult struct {
	ID            int64  `json:"id"`
	NFTID         int64  `json:"nftId"`
	ProjectID     int64  `json:"projectId"`
	TransactionID string `json:"transactionId"`
	MintAddress   string `json:"mintAddress"`
}

func (r *MintResult) EffectiveID() int64 {
	if r.NFTID != 0 {
		return r.NFTID
	}
	return r.ID
}

// NFTUpdate is the body of PATCH /nfts/{id}.
type NFTUpdate struct {
	Attributes map[string]string `json:"attributes"`
}

// NFTDetails is a single NFT as the API reports it.
type NFTDetails struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Symbol         string            `json:"symbol"`
	Image          string            `json:"image"`
	Status         string            `json:"status"`
	MintAddress    string            `json:"mintAddress"`
	OwnerAddress   string            `json:"ownerAddress"`
	ClaimerAddress string            `json:"claimerAddress"`
	Attributes     map[string]string `json:"attributes"`
}

// HeldBy reports whether wallet owns or has claimed the NFT.
func (d *NFTDetails) HeldBy(wallet string) bool {
	if wallet == "" {
		return false
	}
	return d.OwnerAddress == wallet || d.ClaimerAddress == wallet
}

type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
