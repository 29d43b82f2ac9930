package lock

import (
	"fmt"

	"github.com/google/uuid"
)

func WorkCenterLockKey(workCenterID uuid.UUID) string {
	return fmt.Sprintf("foundry:workcenter:%s:lock", workCenterID)
}
