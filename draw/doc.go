// Package draw generates British Parliamentary draws.
//
// A draw splits the teams of a round into four-team rooms, seats each team in one
// of the four positions (Opening Government, Opening Opposition, Closing
// Government, Closing Opposition) and attaches at most one adjudicator per room.
//
// The engine is pure computation: callers load teams and judges from storage,
// call Generator.Generate, persist the result (see ToDatabaseRows) and, once the
// round is confirmed, feed it back through Generator.UpdateHistories so later
// rounds can rotate teams through positions.
//
// A Generator is not safe for concurrent use. Use one instance per tournament
// request and pass history in and out with WithHistories and Histories.
package draw
