package auth

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

func (d *Directory) UseMinCost() { d.cost = bcrypt.MinCost }

func (t *Tokens) SetClock(now func() time.Time) { t.now = now }
