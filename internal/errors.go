// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package internal

import (
	"errors"
)

// Failure categories surfaced by the enhancement core. Wrap with
// fmt.Errorf("%w: ...") to attach detail, test with errors.Is.
var (
	ErrInvalidParameter  = errors.New("invalid parameter")   // unknown preset, intensity out of [0,1], malformed dimensions
	ErrDegenerateInput   = errors.New("degenerate input")    // flat or zero-variance data that cannot be processed
	ErrCapacityExceeded  = errors.New("capacity exceeded")   // worker pool queue full
	ErrTimeout           = errors.New("request timed out")   // deadline elapsed while queued or executing
	ErrCanceled          = errors.New("request canceled")    // caller went away, result discarded
)
