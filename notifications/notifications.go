// This file is part of b-em-sub001.
//
// b-em-sub001 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// b-em-sub001 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with b-em-sub001.  If not, see <https://www.gnu.org/licenses/>.

package notifications

// Notice describes events that change the presentation of the tape to the
// user.
type Notice string

// List of defined notifications.
const (
	// the tape has been ejected. sent when a tape is unloaded by request or
	// because of an unrecoverable error
	NotifyTapeEjected Notice = "NotifyTapeEjected"

	// the options available to the user have changed. for example, after a
	// tape has been loaded the save options are different
	NotifyMenuChanged Notice = "NotifyMenuChanged"

	// a new line has been added to the tape catalogue. the text of the line
	// is sent with NotifyWithDetail()
	NotifyCatalogueLine Notice = "NotifyCatalogueLine"

	// recording has started or stopped
	NotifyRecordModeChanged Notice = "NotifyRecordModeChanged"

	// the tape has reached the end and has been rewound
	NotifyTapeRewound Notice = "NotifyTapeRewound"

	// the tape has reached the end and has stopped
	NotifyTapeFinished Notice = "NotifyTapeFinished"

	// recording has begun with no tape loaded. a blank tape has been created
	// in every format
	NotifyBlankTape Notice = "NotifyBlankTape"
)

// Notify is used for direct communication between the hardware and the host
// program.
type Notify interface {
	Notify(notice Notice, detail string) error
}

// Discard is an implementation of Notify that ignores every notice.
var Discard Notify = discard{}

type discard struct{}

func (discard) Notify(Notice, string) error {
	return nil
}

// Recorder is an implementation of Notify that remembers every notice it
// receives. Useful for testing and for building a catalogue listing.
type Recorder struct {
	Notices []Notice
	Details []string
}

// Notify implements the Notify interface.
func (r *Recorder) Notify(notice Notice, detail string) error {
	r.Notices = append(r.Notices, notice)
	r.Details = append(r.Details, detail)
	return nil
}

// Count returns the number of times the notice has been received.
func (r *Recorder) Count(notice Notice) int {
	var n int
	for _, m := range r.Notices {
		if m == notice {
			n++
		}
	}
	return n
}
