package response

import (
	"github.com/ichbintonywu/transaction-processor/internal/dto"
	"github.com/ichbintonywu/transaction-processor/internal/entity"
)

type RecentTransactions struct {
	Transactions []entity.Transaction `json:"transactions"`
	Count        int                  `json:"count"`
}

type TopCategories struct {
	Categories []dto.CategoryTotal `json:"categories"`
	Count      int                 `json:"count"`
}

type TopMerchants struct {
	Merchants []dto.MerchantTotal `json:"merchants"`
	Count     int                 `json:"count"`
	Category  string              `json:"category"`
}

type Search struct {
	Query   string             `json:"query"`
	Results []dto.SearchResult `json:"results"`
	Count   int                `json:"count"`
	Ready   bool               `json:"ready"`
}
