// Модели данных REST API Plentymarkets

package plenty

import "encoding/json"

// Page - обёртка постраничного ответа.
type Page struct {
	Page        int               `json:"page"`
	TotalsCount int               `json:"totalsCount"`
	IsLastPage  bool              `json:"isLastPage"`
	LastPageNum int               `json:"lastPageNumber"`
	Entries     []json.RawMessage `json:"entries"`
}

// LoginResponse - ответ POST /rest/login.
type LoginResponse struct {
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ============================================================================
// VAT
// ============================================================================

// VATRecord - одна запись конфигурации НДС.
type VATRecord struct {
	ID          int    `json:"id"`
	CountryID   int    `json:"countryId"`
	TaxIDNumber string `json:"taxIdNumber"`
	LocationID  int    `json:"locationId"`
}

// VATConfig - записи НДС одной страны.
type VATConfig struct {
	Config []string `json:"config"` // ID конфигураций
	TaxID  string   `json:"TaxId"`
}

// ============================================================================
// Sales prices
// ============================================================================

// SalesPrice - конфигурация цены продажи (GET /rest/items/sales_prices).
type SalesPrice struct {
	ID                   int                  `json:"id"`
	Position             int                  `json:"position"`
	Type                 string               `json:"type"`
	Interval             string               `json:"interval,omitempty"`
	MinimumOrderQuantity float64              `json:"minimumOrderQuantity,omitempty"`
	IsCustomerPrice      bool                 `json:"isCustomerPrice,omitempty"`
	IsDisplayedByDefault bool                 `json:"isDisplayedByDefault,omitempty"`
	IsLiveConversion     bool                 `json:"isLiveConversion,omitempty"`
	CreatedAt            string               `json:"createdAt,omitempty"`
	UpdatedAt            string               `json:"updatedAt,omitempty"`
	Names                []SalesPriceName     `json:"names"`
	Accounts             []SalesPriceAccount  `json:"accounts"`
	Clients              []SalesPriceClient   `json:"clients"`
	Countries            []SalesPriceCountry  `json:"countries"`
	Currencies           []SalesPriceCurrency `json:"currencies"`
	CustomerClasses      []SalesPriceClass    `json:"customerClasses"`
	Referrers            []SalesPriceReferrer `json:"referrers"`
}

type SalesPriceName struct {
	SalesPriceID int    `json:"salesPriceId"`
	Lang         string `json:"lang"`
	NameInternal string `json:"nameInternal"`
	NameExternal string `json:"nameExternal"`
}

type SalesPriceAccount struct {
	SalesPriceID int    `json:"salesPriceId"`
	AccountType  string `json:"accountType"`
	AccountID    int    `json:"accountId"`
}

type SalesPriceClient struct {
	SalesPriceID int `json:"salesPriceId"`
	PlentyID     int `json:"plentyId"`
}

type SalesPriceCountry struct {
	SalesPriceID int `json:"salesPriceId"`
	CountryID    int `json:"countryId"`
}

type SalesPriceCurrency struct {
	SalesPriceID int    `json:"salesPriceId"`
	Currency     string `json:"currency"`
}

type SalesPriceClass struct {
	SalesPriceID    int `json:"salesPriceId"`
	CustomerClassID int `json:"customerClassId"`
}

// SalesPriceReferrer - referrerId бывает дробным (например 4.01).
type SalesPriceReferrer struct {
	SalesPriceID int     `json:"salesPriceId"`
	ReferrerID   float64 `json:"referrerId"`
}

// ShrunkSalesPrice - сжатая конфигурация цены: только идентификаторы.
type ShrunkSalesPrice struct {
	ID              int               `json:"id"`
	Type            string            `json:"type"`
	Position        int               `json:"position"`
	Names           map[string]string `json:"names"`
	Referrers       []float64         `json:"referrers"`
	Accounts        []int             `json:"accounts"`
	Clients         []int             `json:"clients"`
	Countries       []int             `json:"countries"`
	Currencies      []string          `json:"currencies"`
	CustomerClasses []int             `json:"customerClasses"`
}

// ============================================================================
// Attributes & variations
// ============================================================================

// Attribute - атрибут товара со списком значений.
type Attribute struct {
	ID                    int              `json:"id"`
	BackendName           string           `json:"backendName,omitempty"`
	Position              int              `json:"position"`
	IsSurchargePercental  bool             `json:"isSurchargePercental,omitempty"`
	IsLinkableToImage     bool             `json:"isLinkableToImage,omitempty"`
	AmazonAttribute       string           `json:"amazonAttribute,omitempty"`
	IsGroupable           bool             `json:"isGroupable,omitempty"`
	TypeOfSelectionInShop string           `json:"typeOfSelectionInOnlineStore,omitempty"`
	Values                []AttributeValue `json:"values"`
}

// AttributeValue - значение атрибута.
type AttributeValue struct {
	ID               int                  `json:"id"`
	AttributeID      int                  `json:"attributeId"`
	BackendName      string               `json:"backendName,omitempty"`
	Position         int                  `json:"position"`
	ValueNames       []AttributeValueName `json:"valueNames,omitempty"`
	LinkedVariations []int                `json:"linked_variations,omitempty"`
}

type AttributeValueName struct {
	Lang    string `json:"lang"`
	ValueID string `json:"valueId"`
	Name    string `json:"name"`
}

// Variation - вариация товара (только поля, нужные для связывания).
type Variation struct {
	ID                       int                       `json:"id"`
	ItemID                   int                       `json:"itemId,omitempty"`
	Number                   string                    `json:"number"`
	IsMain                   bool                      `json:"isMain,omitempty"`
	IsActive                 bool                      `json:"isActive,omitempty"`
	VariationAttributeValues []VariationAttributeValue `json:"variationAttributeValues"`
}

type VariationAttributeValue struct {
	AttributeID int `json:"attributeId"`
	ValueID     int `json:"valueId"`
}

// Manufacturer - производитель (GET /rest/items/manufacturers).
type Manufacturer struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	ExternalName string `json:"externalName"`
	CountryID    int    `json:"countryId"`
}
