// Package lua runs stackcalc plugins written in Lua.
//
// A Lua plugin is a single script that defines two global functions,
// AllocPlugin and DeallocPlugin, mirroring the native plugin ABI:
//
//	function AllocPlugin()
//	    return {
//	        version = { major = 1, minor = 0 },
//	        commands = {
//	            { name = "sinh", help = "...", kind = "unary",
//	              fn = function(x) return (math.exp(x) - math.exp(-x)) / 2 end },
//	            { name = "hypot", kind = "binary",
//	              fn = function(y, x) return math.sqrt(y*y + x*x) end },
//	            { name = "ln", fn = math.log,
//	              check = function(stack)
//	                  if stack.peek(1) <= 0 then return "Invalid argument" end
//	              end },
//	        },
//	        buttons = {
//	            { display = "sinh", command = "sinh",
//	              shift_display = "ln", shift_command = "ln" },
//	        },
//	    }
//	end
//
//	function DeallocPlugin(p) end
//
// Binary functions receive (next, top). A check function receives a
// read-only view of the stack with size() and peek(i), where peek(1) is
// the top; returning a non-empty string rejects the command with that
// message and leaves the stack untouched.
//
// # Sandbox
//
// Scripts run in a State that opens only the base, table, string and math
// libraries. dofile, loadfile, load and loadstring are removed, require
// refuses every module, and print is routed to the host's logger. Each
// call into Lua is bounded by an execution timeout.
package lua
