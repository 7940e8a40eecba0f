package underdog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// ErrEmptyResponse is returned when the API answers 2xx without a body.
var ErrEmptyResponse = errors.New("underdog: empty response")

// Client wraps the NFT endpoints of one Underdog project.
type Client struct {
	http      *resty.Client
	projectID int64
	limiter   *rate.Limiter
}

type Options struct {
	BaseURL    string
	APIKey     string
	ProjectID  int64
	RatePerSec float64
	Timeout    time.Duration
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	limit := rate.Inf
	burst := 1
	if opts.RatePerSec > 0 {
		limit = rate.Limit(opts.RatePerSec)
		burst = int(opts.RatePerSec)
		if burst < 1 {
			burst = 1
		}
	}

	httpClient := resty.New().
		SetBaseURL(opts.BaseURL).
		SetAuthToken(opts.APIKey).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http:      httpClient,
		projectID: opts.ProjectID,
		limiter:   rate.NewLimiter(limit, burst),
	}
}

// ListNFTs returns the first page of the project's NFTs.
func (c *Client) ListNFTs(ctx context.Context, limit int) (*NFTPage, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, fmt.Errorf("list nfts: %w", err)
	}
	var out NFTPage
	resp, err := req.
		SetResult(&out).
		SetQueryParam("limit", strconv.Itoa(limit)).
		Get(c.nftsPath())
	if err := checkResponse("list nfts", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateNFT(ctx context.Context, meta NFTMetadata) (*MintResult, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, fmt.Errorf("create nft: %w", err)
	}
	var out MintResult
	resp, err := req.
		SetResult(&out).
		SetBody(meta).
		Post(c.nftsPath())
	if err := checkResponse("create nft", resp, err); err != nil {
		return nil, err
	}
	if out.EffectiveID() == 0 && out.MintAddress == "" {
		return nil, fmt.Errorf("create nft: %w", ErrEmptyResponse)
	}
	return &out, nil
}

func (c *Client) UpdateNFT(ctx context.Context, nftID int64, update NFTUpdate) (*NFTDetails, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, fmt.Errorf("update nft: %w", err)
	}
	var out NFTDetails
	resp, err := req.
		SetResult(&out).
		SetBody(update).
		SetPathParam("nftId", strconv.FormatInt(nftID, 10)).
		Patch(c.nftsPath() + "/{nftId}")
	if err := checkResponse("update nft", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetNFT(ctx context.Context, nftID int64) (*NFTDetails, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, fmt.Errorf("get nft: %w", err)
	}
	var out NFTDetails
	resp, err := req.
		SetResult(&out).
		SetPathParam("nftId", strconv.FormatInt(nftID, 10)).
		Get(c.nftsPath() + "/{nftId}")
	if err := checkResponse("get nft", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) nftsPath() string {
	return fmt.Sprintf("/v2/projects/n/%d/nfts", c.projectID)
}

// request waits for the rate limiter so bursts from the jobs stay under the API quota.
func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.http.R().SetContext(ctx).SetError(&apiError{}), nil
}

func checkResponse(op string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.IsError() {
		msg := http.StatusText(resp.StatusCode())
		if apiErr, ok := resp.Error().(*apiError); ok && apiErr != nil {
			if apiErr.Message != "" {
				msg = apiErr.Message
			} else if apiErr.Error != "" {
				msg = apiErr.Error
			}
		}
		return fmt.Errorf("%s: underdog http %d: %s", op, resp.StatusCode(), msg)
	}
	body := resp.Body()
	if len(body) == 0 || string(body) == "null" {
		return fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}
	return nil
}
