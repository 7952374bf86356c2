package aggregator

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"meta-swap/pkg/types"
)

// RewritePayer swaps the test payer for the real payer in a transaction
// built for the test payer. Only ABI-encoded address words starting on a
// byte boundary are replaced, in any letter case. From is set to payer.
func RewritePayer(tx *types.TransactionRequest, testPayer, payer string) {
	tx.From = payer
	if !common.IsHexAddress(testPayer) || !common.IsHexAddress(payer) {
		return
	}
	if len(tx.Data) < 2 || !strings.EqualFold(tx.Data[:2], "0x") {
		return
	}

	needle := addressWord(testPayer)
	replacement := addressWord(payer)
	body := tx.Data[2:]
	lower := strings.ToLower(body)

	var b strings.Builder
	b.Grow(len(tx.Data))
	b.WriteString(tx.Data[:2])
	last := 0
	for i := 0; i <= len(lower)-len(needle); {
		j := strings.Index(lower[i:], needle)
		if j < 0 {
			break
		}
		pos := i + j
		if pos%2 != 0 {
			i = pos + 1
			continue
		}
		b.WriteString(body[last:pos])
		b.WriteString(replacement)
		last = pos + len(needle)
		i = last
	}
	b.WriteString(body[last:])
	tx.Data = b.String()
}

// addressWord is the lowercase hex of an address left-padded to 32 bytes
func addressWord(address string) string {
	return common.Bytes2Hex(common.LeftPadBytes(common.HexToAddress(address).Bytes(), 32))
}
