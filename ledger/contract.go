package ledger

import (
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// supplyChainABI is the JSON ABI of the SupplyChain contract surface this
// adapter uses. The contract itself (storage layout, access control) is an
// external collaborator.
const supplyChainABI = `[
  {"type":"function","name":"createProduct","stateMutability":"nonpayable","inputs":[{"name":"ipfsHash","type":"string"}],"outputs":[]},
  {"type":"function","name":"updateProduct","stateMutability":"nonpayable","inputs":[{"name":"id","type":"uint256"},{"name":"ipfsHash","type":"string"}],"outputs":[]},
  {"type":"function","name":"addStakeholder","stateMutability":"nonpayable","inputs":[{"name":"account","type":"address"}],"outputs":[]},
  {"type":"function","name":"getProduct","stateMutability":"view","inputs":[{"name":"id","type":"uint256"}],"outputs":[{"name":"ipfsHash","type":"string"},{"name":"manufacturer","type":"address"},{"name":"timestamp","type":"uint256"}]},
  {"type":"function","name":"getUpdateCount","stateMutability":"view","inputs":[{"name":"id","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getUpdateHash","stateMutability":"view","inputs":[{"name":"id","type":"uint256"},{"name":"index","type":"uint256"}],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"productCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"stakeholders","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"event","name":"ProductCreated","inputs":[{"name":"id","type":"uint256","indexed":true},{"name":"ipfsHash","type":"string","indexed":false},{"name":"manufacturer","type":"address","indexed":true},{"name":"timestamp","type":"uint256","indexed":false}],"anonymous":false},
  {"type":"event","name":"ProductUpdated","inputs":[{"name":"id","type":"uint256","indexed":true},{"name":"ipfsHash","type":"string","indexed":false},{"name":"timestamp","type":"uint256","indexed":false}],"anonymous":false}
]`

// Event names emitted by the contract.
const (
	eventProductCreated = "ProductCreated"
	eventProductUpdated = "ProductUpdated"
)

var (
	parsedABI     abi.ABI
	parseABIOnce  sync.Once
	parseABIError error
)

func contractABI() (abi.ABI, error) {
	parseABIOnce.Do(func() {
		parsedABI, parseABIError = abi.JSON(strings.NewReader(supplyChainABI))
	})
	return parsedABI, parseABIError
}

// productCreatedEvent mirrors the ProductCreated event layout for log
// unpacking. Field names must match the ABI argument names.
type productCreatedEvent struct {
	Id           *big.Int
	IpfsHash     string
	Manufacturer common.Address
	Timestamp    *big.Int
}

// productUpdatedEvent mirrors the ProductUpdated event layout.
type productUpdatedEvent struct {
	Id        *big.Int
	IpfsHash  string
	Timestamp *big.Int
}
