// Package apiconnect wires the splitvault.v1 services to Connect handlers
// and clients using the JSON codec from package api.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitvault/pkg/api"
)

const (
	// SplitServiceName is the fully-qualified name of the SplitService service.
	SplitServiceName = "splitvault.v1.SplitService"
)

// Procedure paths of SplitService.
const (
	SplitServiceCreateSplitProcedure                    = "/splitvault.v1.SplitService/CreateSplit"
	SplitServiceApproveAgreementProcedure               = "/splitvault.v1.SplitService/ApproveAgreement"
	SplitServiceApprovePaymentProcedure                 = "/splitvault.v1.SplitService/ApprovePayment"
	SplitServiceLevyPenaltyProcedure                    = "/splitvault.v1.SplitService/LevyPenalty"
	SplitServiceWithdrawCollateralProcedure             = "/splitvault.v1.SplitService/WithdrawCollateral"
	SplitServiceGetMySplitsProcedure                    = "/splitvault.v1.SplitService/GetMySplits"
	SplitServiceGetSplitDataProcedure                   = "/splitvault.v1.SplitService/GetSplitData"
	SplitServiceGetSplitBorrowerDataProcedure           = "/splitvault.v1.SplitService/GetSplitBorrowerData"
	SplitServiceGetSplitBorrowerDataForCreatorProcedure = "/splitvault.v1.SplitService/GetSplitBorrowerDataForCreator"
	SplitServiceGetSplitActivityProcedure               = "/splitvault.v1.SplitService/GetSplitActivity"
	SplitServiceGetBalanceProcedure                     = "/splitvault.v1.SplitService/GetBalance"
)

// SplitServiceHandler is implemented by the server side of SplitService.
type SplitServiceHandler interface {
	CreateSplit(context.Context, *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error)
	ApproveAgreement(context.Context, *connect.Request[api.ApproveAgreementRequest]) (*connect.Response[api.ApproveAgreementResponse], error)
	ApprovePayment(context.Context, *connect.Request[api.ApprovePaymentRequest]) (*connect.Response[api.ApprovePaymentResponse], error)
	LevyPenalty(context.Context, *connect.Request[api.LevyPenaltyRequest]) (*connect.Response[api.LevyPenaltyResponse], error)
	WithdrawCollateral(context.Context, *connect.Request[api.WithdrawCollateralRequest]) (*connect.Response[api.WithdrawCollateralResponse], error)
	GetMySplits(context.Context, *connect.Request[api.GetMySplitsRequest]) (*connect.Response[api.GetMySplitsResponse], error)
	GetSplitData(context.Context, *connect.Request[api.GetSplitDataRequest]) (*connect.Response[api.GetSplitDataResponse], error)
	GetSplitBorrowerData(context.Context, *connect.Request[api.GetSplitBorrowerDataRequest]) (*connect.Response[api.GetSplitBorrowerDataResponse], error)
	GetSplitBorrowerDataForCreator(context.Context, *connect.Request[api.GetSplitBorrowerDataForCreatorRequest]) (*connect.Response[api.GetSplitBorrowerDataForCreatorResponse], error)
	GetSplitActivity(context.Context, *connect.Request[api.GetSplitActivityRequest]) (*connect.Response[api.GetSplitActivityResponse], error)
	GetBalance(context.Context, *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error)
}

// NewSplitServiceHandler builds an HTTP handler serving every SplitService procedure.
// It returns the path prefix to mount the handler on.
func NewSplitServiceHandler(svc SplitServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
	createSplitHandler := connect.NewUnaryHandler(SplitServiceCreateSplitProcedure, svc.CreateSplit, opts...)
	approveAgreementHandler := connect.NewUnaryHandler(SplitServiceApproveAgreementProcedure, svc.ApproveAgreement, opts...)
	approvePaymentHandler := connect.NewUnaryHandler(SplitServiceApprovePaymentProcedure, svc.ApprovePayment, opts...)
	levyPenaltyHandler := connect.NewUnaryHandler(SplitServiceLevyPenaltyProcedure, svc.LevyPenalty, opts...)
	withdrawCollateralHandler := connect.NewUnaryHandler(SplitServiceWithdrawCollateralProcedure, svc.WithdrawCollateral, opts...)
	getMySplitsHandler := connect.NewUnaryHandler(SplitServiceGetMySplitsProcedure, svc.GetMySplits, opts...)
	getSplitDataHandler := connect.NewUnaryHandler(SplitServiceGetSplitDataProcedure, svc.GetSplitData, opts...)
	getSplitBorrowerDataHandler := connect.NewUnaryHandler(SplitServiceGetSplitBorrowerDataProcedure, svc.GetSplitBorrowerData, opts...)
	getSplitBorrowerDataForCreatorHandler := connect.NewUnaryHandler(SplitServiceGetSplitBorrowerDataForCreatorProcedure, svc.GetSplitBorrowerDataForCreator, opts...)
	getSplitActivityHandler := connect.NewUnaryHandler(SplitServiceGetSplitActivityProcedure, svc.GetSplitActivity, opts...)
	getBalanceHandler := connect.NewUnaryHandler(SplitServiceGetBalanceProcedure, svc.GetBalance, opts...)
	return "/" + SplitServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SplitServiceCreateSplitProcedure:
			createSplitHandler.ServeHTTP(w, r)
		case SplitServiceApproveAgreementProcedure:
			approveAgreementHandler.ServeHTTP(w, r)
		case SplitServiceApprovePaymentProcedure:
			approvePaymentHandler.ServeHTTP(w, r)
		case SplitServiceLevyPenaltyProcedure:
			levyPenaltyHandler.ServeHTTP(w, r)
		case SplitServiceWithdrawCollateralProcedure:
			withdrawCollateralHandler.ServeHTTP(w, r)
		case SplitServiceGetMySplitsProcedure:
			getMySplitsHandler.ServeHTTP(w, r)
		case SplitServiceGetSplitDataProcedure:
			getSplitDataHandler.ServeHTTP(w, r)
		case SplitServiceGetSplitBorrowerDataProcedure:
			getSplitBorrowerDataHandler.ServeHTTP(w, r)
		case SplitServiceGetSplitBorrowerDataForCreatorProcedure:
			getSplitBorrowerDataForCreatorHandler.ServeHTTP(w, r)
		case SplitServiceGetSplitActivityProcedure:
			getSplitActivityHandler.ServeHTTP(w, r)
		case SplitServiceGetBalanceProcedure:
			getBalanceHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// SplitServiceClient is a client for SplitService.
type SplitServiceClient interface {
	CreateSplit(context.Context, *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error)
	ApproveAgreement(context.Context, *connect.Request[api.ApproveAgreementRequest]) (*connect.Response[api.ApproveAgreementResponse], error)
	ApprovePayment(context.Context, *connect.Request[api.ApprovePaymentRequest]) (*connect.Response[api.ApprovePaymentResponse], error)
	LevyPenalty(context.Context, *connect.Request[api.LevyPenaltyRequest]) (*connect.Response[api.LevyPenaltyResponse], error)
	WithdrawCollateral(context.Context, *connect.Request[api.WithdrawCollateralRequest]) (*connect.Response[api.WithdrawCollateralResponse], error)
	GetMySplits(context.Context, *connect.Request[api.GetMySplitsRequest]) (*connect.Response[api.GetMySplitsResponse], error)
	GetSplitData(context.Context, *connect.Request[api.GetSplitDataRequest]) (*connect.Response[api.GetSplitDataResponse], error)
	GetSplitBorrowerData(context.Context, *connect.Request[api.GetSplitBorrowerDataRequest]) (*connect.Response[api.GetSplitBorrowerDataResponse], error)
	GetSplitBorrowerDataForCreator(context.Context, *connect.Request[api.GetSplitBorrowerDataForCreatorRequest]) (*connect.Response[api.GetSplitBorrowerDataForCreatorResponse], error)
	GetSplitActivity(context.Context, *connect.Request[api.GetSplitActivityRequest]) (*connect.Response[api.GetSplitActivityResponse], error)
	GetBalance(context.Context, *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error)
}

// NewSplitServiceClient creates a SplitService client talking to baseURL
// (for example, http://localhost:8080).
func NewSplitServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SplitServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &splitServiceClient{
		createSplit:                    connect.NewClient[api.CreateSplitRequest, api.CreateSplitResponse](httpClient, baseURL+SplitServiceCreateSplitProcedure, opts...),
		approveAgreement:               connect.NewClient[api.ApproveAgreementRequest, api.ApproveAgreementResponse](httpClient, baseURL+SplitServiceApproveAgreementProcedure, opts...),
		approvePayment:                 connect.NewClient[api.ApprovePaymentRequest, api.ApprovePaymentResponse](httpClient, baseURL+SplitServiceApprovePaymentProcedure, opts...),
		levyPenalty:                    connect.NewClient[api.LevyPenaltyRequest, api.LevyPenaltyResponse](httpClient, baseURL+SplitServiceLevyPenaltyProcedure, opts...),
		withdrawCollateral:             connect.NewClient[api.WithdrawCollateralRequest, api.WithdrawCollateralResponse](httpClient, baseURL+SplitServiceWithdrawCollateralProcedure, opts...),
		getMySplits:                    connect.NewClient[api.GetMySplitsRequest, api.GetMySplitsResponse](httpClient, baseURL+SplitServiceGetMySplitsProcedure, opts...),
		getSplitData:                   connect.NewClient[api.GetSplitDataRequest, api.GetSplitDataResponse](httpClient, baseURL+SplitServiceGetSplitDataProcedure, opts...),
		getSplitBorrowerData:           connect.NewClient[api.GetSplitBorrowerDataRequest, api.GetSplitBorrowerDataResponse](httpClient, baseURL+SplitServiceGetSplitBorrowerDataProcedure, opts...),
		getSplitBorrowerDataForCreator: connect.NewClient[api.GetSplitBorrowerDataForCreatorRequest, api.GetSplitBorrowerDataForCreatorResponse](httpClient, baseURL+SplitServiceGetSplitBorrowerDataForCreatorProcedure, opts...),
		getSplitActivity:               connect.NewClient[api.GetSplitActivityRequest, api.GetSplitActivityResponse](httpClient, baseURL+SplitServiceGetSplitActivityProcedure, opts...),
		getBalance:                     connect.NewClient[api.GetBalanceRequest, api.GetBalanceResponse](httpClient, baseURL+SplitServiceGetBalanceProcedure, opts...),
	}
}

type splitServiceClient struct {
	createSplit                    *connect.Client[api.CreateSplitRequest, api.CreateSplitResponse]
	approveAgreement               *connect.Client[api.ApproveAgreementRequest, api.ApproveAgreementResponse]
	approvePayment                 *connect.Client[api.ApprovePaymentRequest, api.ApprovePaymentResponse]
	levyPenalty                    *connect.Client[api.LevyPenaltyRequest, api.LevyPenaltyResponse]
	withdrawCollateral             *connect.Client[api.WithdrawCollateralRequest, api.WithdrawCollateralResponse]
	getMySplits                    *connect.Client[api.GetMySplitsRequest, api.GetMySplitsResponse]
	getSplitData                   *connect.Client[api.GetSplitDataRequest, api.GetSplitDataResponse]
	getSplitBorrowerData           *connect.Client[api.GetSplitBorrowerDataRequest, api.GetSplitBorrowerDataResponse]
	getSplitBorrowerDataForCreator *connect.Client[api.GetSplitBorrowerDataForCreatorRequest, api.GetSplitBorrowerDataForCreatorResponse]
	getSplitActivity               *connect.Client[api.GetSplitActivityRequest, api.GetSplitActivityResponse]
	getBalance                     *connect.Client[api.GetBalanceRequest, api.GetBalanceResponse]
}

func (c *splitServiceClient) CreateSplit(ctx context.Context, req *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error) {
	return c.createSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) ApproveAgreement(ctx context.Context, req *connect.Request[api.ApproveAgreementRequest]) (*connect.Response[api.ApproveAgreementResponse], error) {
	return c.approveAgreement.CallUnary(ctx, req)
}

func (c *splitServiceClient) ApprovePayment(ctx context.Context, req *connect.Request[api.ApprovePaymentRequest]) (*connect.Response[api.ApprovePaymentResponse], error) {
	return c.approvePayment.CallUnary(ctx, req)
}

func (c *splitServiceClient) LevyPenalty(ctx context.Context, req *connect.Request[api.LevyPenaltyRequest]) (*connect.Response[api.LevyPenaltyResponse], error) {
	return c.levyPenalty.CallUnary(ctx, req)
}

func (c *splitServiceClient) WithdrawCollateral(ctx context.Context, req *connect.Request[api.WithdrawCollateralRequest]) (*connect.Response[api.WithdrawCollateralResponse], error) {
	return c.withdrawCollateral.CallUnary(ctx, req)
}

func (c *splitServiceClient) GetMySplits(ctx context.Context, req *connect.Request[api.GetMySplitsRequest]) (*connect.Response[api.GetMySplitsResponse], error) {
	return c.getMySplits.CallUnary(ctx, req)
}

func (c *splitServiceClient) GetSplitData(ctx context.Context, req *connect.Request[api.GetSplitDataRequest]) (*connect.Response[api.GetSplitDataResponse], error) {
	return c.getSplitData.CallUnary(ctx, req)
}

func (c *splitServiceClient) GetSplitBorrowerData(ctx context.Context, req *connect.Request[api.GetSplitBorrowerDataRequest]) (*connect.Response[api.GetSplitBorrowerDataResponse], error) {
	return c.getSplitBorrowerData.CallUnary(ctx, req)
}

func (c *splitServiceClient) GetSplitBorrowerDataForCreator(ctx context.Context, req *connect.Request[api.GetSplitBorrowerDataForCreatorRequest]) (*connect.Response[api.GetSplitBorrowerDataForCreatorResponse], error) {
	return c.getSplitBorrowerDataForCreator.CallUnary(ctx, req)
}

func (c *splitServiceClient) GetSplitActivity(ctx context.Context, req *connect.Request[api.GetSplitActivityRequest]) (*connect.Response[api.GetSplitActivityResponse], error) {
	return c.getSplitActivity.CallUnary(ctx, req)
}

func (c *splitServiceClient) GetBalance(ctx context.Context, req *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error) {
	return c.getBalance.CallUnary(ctx, req)
}
