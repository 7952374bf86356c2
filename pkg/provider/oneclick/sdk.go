package oneclick

import (
	"context"
	"fmt"
	"io"
	"net/http"

	sdk "github.com/defuse-protocol/one-click-sdk-go"

	"meta-swap/pkg/provider"
	"meta-swap/pkg/provider/httpx"
)

// SDKBackend calls the 1Click API through the official SDK
type SDKBackend struct {
	api *sdk.APIClient
	jwt string
}

// NewSDKBackend creates a backend from provider settings. s.APIKey is the JWT.
func NewSDKBackend(s provider.Settings) *SDKBackend {
	cfg := sdk.NewConfiguration()
	cfg.UserAgent = httpx.UserAgent
	if s.BaseURL != "" {
		cfg.Servers = sdk.ServerConfigurations{{URL: s.BaseURL}}
	}
	hc := s.HTTPClient
	if hc == nil {
		timeout := s.Timeout
		if timeout <= 0 {
			timeout = httpx.DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	cfg.HTTPClient = hc

	return &SDKBackend{api: sdk.NewAPIClient(cfg), jwt: s.APIKey}
}

func (b *SDKBackend) auth(ctx context.Context) context.Context {
	if b.jwt == "" {
		return ctx
	}
	return context.WithValue(ctx, sdk.ContextAccessToken, b.jwt)
}

// Tokens lists supported assets
func (b *SDKBackend) Tokens(ctx context.Context) ([]Asset, error) {
	resp, httpResp, err := b.api.OneClickAPI.GetTokens(b.auth(ctx)).Execute()
	if err != nil {
		return nil, apiError(httpResp, err)
	}
	defer httpResp.Body.Close()

	assets := make([]Asset, 0, len(resp))
	for _, t := range resp {
		assets = append(assets, Asset{
			AssetID:         t.GetAssetId(),
			Symbol:          t.GetSymbol(),
			Blockchain:      t.GetBlockchain(),
			ContractAddress: t.GetContractAddress(),
			Decimals:        int(t.GetDecimals()),
		})
	}
	return assets, nil
}

// Quote requests a non-dry exact-input quote, which allocates a deposit address
func (b *SDKBackend) Quote(ctx context.Context, in QuoteInput) (*Deposit, error) {
	req := sdk.NewQuoteRequest(
		in.Dry,
		"EXACT_INPUT",
		float32(in.SlippageBps),
		in.OriginAsset,
		"ORIGIN_CHAIN",
		in.DestinationAsset,
		in.Amount,
		in.RefundTo,
		"ORIGIN_CHAIN",
		in.Recipient,
		"DESTINATION_CHAIN",
		in.Deadline,
	)

	resp, httpResp, err := b.api.OneClickAPI.GetQuote(b.auth(ctx)).QuoteRequest(*req).Execute()
	if err != nil {
		return nil, apiError(httpResp, err)
	}
	defer httpResp.Body.Close()
	if resp == nil {
		return nil, fmt.Errorf("%w: empty quote response", provider.ErrMalformedResponse)
	}

	q := resp.GetQuote()
	return &Deposit{
		Address:            q.GetDepositAddress(),
		AmountInFormatted:  q.GetAmountInFormatted(),
		AmountOutFormatted: q.GetAmountOutFormatted(),
		TimeEstimate:       float64(q.GetTimeEstimate()),
	}, nil
}

// ExecutionStatus reads the progress of the swap funded through depositAddress
func (b *SDKBackend) ExecutionStatus(ctx context.Context, depositAddress string) (*Execution, error) {
	resp, httpResp, err := b.api.OneClickAPI.GetExecutionStatus(b.auth(ctx)).DepositAddress(depositAddress).Execute()
	if err != nil {
		return nil, apiError(httpResp, err)
	}
	defer httpResp.Body.Close()

	details := resp.GetSwapDetails()
	ex := &Execution{
		Status:    resp.GetStatus(),
		UpdatedAt: resp.GetUpdatedAt(),
	}
	for _, tx := range details.GetOriginChainTxHashes() {
		if h := tx.GetHash(); h != "" {
			ex.OriginTxHashes = append(ex.OriginTxHashes, h)
		}
	}
	for _, tx := range details.GetDestinationChainTxHashes() {
		if h := tx.GetHash(); h != "" {
			ex.DestinationTxHashes = append(ex.DestinationTxHashes, h)
		}
	}
	return ex, nil
}

// SubmitDeposit reports the transaction that funded depositAddress
func (b *SDKBackend) SubmitDeposit(ctx context.Context, depositAddress, txHash string) error {
	req := sdk.NewSubmitDepositTxRequest(depositAddress, txHash)
	_, httpResp, err := b.api.OneClickAPI.SubmitDepositTx(b.auth(ctx)).SubmitDepositTxRequest(*req).Execute()
	if err != nil {
		return apiError(httpResp, err)
	}
	defer httpResp.Body.Close()
	return nil
}

// apiError keeps the answer body of failed calls, the SDK error only
// carries the status line
func apiError(httpResp *http.Response, err error) error {
	if httpResp == nil || httpResp.StatusCode < 400 {
		return err
	}
	defer httpResp.Body.Close()
	body, _ := io.ReadAll(httpResp.Body)
	return &httpx.HTTPError{
		StatusCode: httpResp.StatusCode,
		Status:     http.StatusText(httpResp.StatusCode),
		Body:       string(body),
	}
}
