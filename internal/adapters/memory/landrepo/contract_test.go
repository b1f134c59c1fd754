package landrepo

import (
	"testing"

	"github.com/isail-maritime/crew-rotation-api/internal/adapters/contracttest"
	memuserrepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/userrepo"
	landrepoport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/landrepo"
	userrepoport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/userrepo"
)

func TestContract_LandAssignmentRepo(t *testing.T) {
	contracttest.RunLandAssignmentRepo(
		t,
		func(t *testing.T) (userrepoport.Repository, func()) {
			t.Helper()
			return memuserrepo.NewRepo(), nil
		},
		func(t *testing.T) (landrepoport.Repository, func()) {
			t.Helper()
			return NewRepo(), nil
		},
	)
}
