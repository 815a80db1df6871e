package registry

import "errors"

var (
	ErrAssetNotFound    = errors.New("asset not found in registry")
	ErrTransferRejected = errors.New("registry rejected the transfer")
)

// Service is the authoritative ownership store for assets. The engine never
// trusts caller-supplied ownership; every check goes through here.
type Service interface {
	OwnerOf(assetID string) (string, error)
	IsApprovedToTransfer(assetID, operator string) (bool, error)
	Transfer(assetID, from, to string) error
}
